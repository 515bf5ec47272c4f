package recipe

import (
	"path"

	"github.com/mogaika/gltf_bake/document"
)

// GL enums written into textures and samplers.
const (
	glRGBA               = 6408
	glSRGBAlpha          = 0x8C42
	glTexture2D          = 3553
	glUnsignedByte       = 5121
	glClampToEdge        = 33071
	glLinear             = 9729
	glLinearMipmapLinear = 9987
)

// AddImages adds an image per entry of images (image id to file name), with
// uris relative to dir.
func AddImages(doc *document.Document, images map[string]string, dir string) {
	for id, file := range images {
		doc.Images[id] = &document.Image{URI: path.Join(dir, file)}
	}
}

// AddTextures adds an sRGB 2D texture per entry of textures (texture id to
// image id), all sampled with sampler.
func AddTextures(doc *document.Document, textures map[string]string, sampler string) {
	for id, image := range textures {
		doc.Textures[id] = &document.Texture{
			Format:         glRGBA,
			InternalFormat: glSRGBAlpha,
			Sampler:        sampler,
			Source:         image,
			Target:         glTexture2D,
			Type:           glUnsignedByte,
		}
	}
}

// AddLightmapSampler adds a trilinear, edge clamped sampler.
func AddLightmapSampler(doc *document.Document, id string) {
	doc.Samplers[id] = &document.Sampler{
		MagFilter: glLinear,
		MinFilter: glLinearMipmapLinear,
		WrapS:     glClampToEdge,
		WrapT:     glClampToEdge,
	}
}
