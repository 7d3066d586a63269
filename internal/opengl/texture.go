package opengl

import (
	"fmt"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"portal-scene/scene"
)

// UploadTexture uploads a scene.Texture to the GPU and sets its GLID field.
// Call this from the render thread (OpenGL context must be current).
// Textures marked SRGB are stored as SRGB8_ALPHA8 so sampling returns
// linear values.
func UploadTexture(tex *scene.Texture) error {
	if tex == nil {
		return fmt.Errorf("nil texture")
	}
	if len(tex.Pixels) == 0 {
		return fmt.Errorf("texture %q has no pixel data", tex.Name)
	}
	if len(tex.Pixels) != tex.Width*tex.Height*4 {
		return fmt.Errorf("texture %q: %d bytes for %dx%d RGBA", tex.Name, len(tex.Pixels), tex.Width, tex.Height)
	}

	internalFormat := int32(gl.RGBA8)
	if tex.SRGB {
		internalFormat = gl.SRGB8_ALPHA8
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		internalFormat,
		int32(tex.Width),
		int32(tex.Height),
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		unsafe.Pointer(&tex.Pixels[0]),
	)
	gl.GenerateMipmap(gl.TEXTURE_2D)

	gl.BindTexture(gl.TEXTURE_2D, 0)

	tex.GLID = id
	return nil
}

// DeleteTexture frees a previously uploaded GPU texture and zeroes its GLID.
func DeleteTexture(tex *scene.Texture) {
	if tex == nil || tex.GLID == 0 {
		return
	}
	gl.DeleteTextures(1, &tex.GLID)
	tex.GLID = 0
}
