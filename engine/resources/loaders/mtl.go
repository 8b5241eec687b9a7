package loaders

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/spaghettifunk/modelview/engine/resources"
)

var mtlTextureKeywords = map[string]resources.TextureKind{
	"map_kd":   resources.TextureKindDiffuse,
	"map_ks":   resources.TextureKindSpecular,
	"map_ka":   resources.TextureKindAmbient,
	"map_ke":   resources.TextureKindEmissive,
	"map_ns":   resources.TextureKindShininess,
	"map_d":    resources.TextureKindOpacity,
	"map_bump": resources.TextureKindHeight,
	"bump":     resources.TextureKindHeight,
	"norm":     resources.TextureKindNormals,
	"disp":     resources.TextureKindDisplacement,
	"refl":     resources.TextureKindReflection,
}

// ParseMaterialLibrary collects the texture maps of every material in an MTL
// file. Colours and scalar parameters are ignored. Map options such as
// "-bm 1.0" are skipped; the last token is taken as the file name.
func ParseMaterialLibrary(r io.Reader) map[string]*resources.Material {
	materials := map[string]*resources.Material{}
	var current *resources.Material

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		keyword := strings.ToLower(fields[0])
		if keyword == "newmtl" {
			if len(fields) < 2 {
				current = nil
				continue
			}
			name := strings.Join(fields[1:], " ")
			current = resources.NewMaterial(name)
			materials[name] = current
			continue
		}
		kind, ok := mtlTextureKeywords[keyword]
		if !ok || current == nil || len(fields) < 2 {
			continue
		}
		current.AddTexture(kind, mapFileName(fields[1:]))
	}
	return materials
}

// mapFileName drops leading map options and returns the file name that
// follows them.
func mapFileName(args []string) string {
	i := 0
	for i < len(args) && strings.HasPrefix(args[i], "-") {
		opt := args[i]
		i++
		switch opt {
		case "-o", "-s", "-t", "-mm":
			// one to three numbers
			for n := 0; n < 3 && i < len(args)-1 && isNumber(args[i]); n++ {
				i++
			}
		default:
			if i < len(args)-1 {
				i++
			}
		}
	}
	if i >= len(args) {
		return ""
	}
	return strings.Join(args[i:], " ")
}

func isNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 32)
	return err == nil
}
