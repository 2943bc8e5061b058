// Package gl binds a rendering context to a native window and exposes the
// fixed-function OpenGL 1.x entry points drawn with once it is current.
package gl

import "unsafe"

const (
	ColorBufferBit = 0x00004000
	DepthBufferBit = 0x00000100

	Texture2D       = 0x0DE1
	UnpackAlignment = 0x0CF5
	PackAlignment   = 0x0D05

	TextureWrapS     = 0x2802
	TextureWrapT     = 0x2803
	TextureMinFilter = 0x2801
	TextureMagFilter = 0x2800
	Nearest          = 0x2600
	Linear           = 0x2601
	ClampToEdge      = 0x812F

	RGBA         = 0x1908
	UnsignedByte = 0x1401

	Triangles     = 0x0004
	TriangleStrip = 0x0005
	Quads         = 0x0007

	ModelView  = 0x1700
	Projection = 0x1701

	Blend            = 0x0BE2
	SrcAlpha         = 0x0302
	OneMinusSrcAlpha = 0x0303

	// DepthTest needs a depth buffer, which DefaultPixelFormat requests.
	DepthTest = 0x0B71
	Less      = 0x0201
	Lequal    = 0x0203

	CullFace = 0x0B44

	Vendor   = 0x1F00
	Renderer = 0x1F01
	Version  = 0x1F02

	NoError = 0
)

// OpenGL is the subset of OpenGL used for drawing. Every call acts on the
// context current on the calling thread.
type OpenGL interface {
	ClearColor(r, g, b, a float32)
	ClearDepth(depth float64)
	Clear(mask uint32)
	Viewport(x, y, width, height int32)
	Enable(cap uint32)
	Disable(cap uint32)
	DepthFunc(fn uint32)
	BlendFunc(sfactor, dfactor uint32)

	GenTextures(n int32, textures *uint32)
	DeleteTextures(n int32, textures *uint32)
	BindTexture(target, texture uint32)
	// TexImage2D allocates storage without uploading when pixels is nil.
	TexImage2D(target uint32, level, internalFormat, width, height, border int32, format, xtype uint32, pixels unsafe.Pointer)
	TexSubImage2D(target uint32, level, xoffset, yoffset, width, height int32, format, xtype uint32, pixels unsafe.Pointer)
	TexParameteri(target, pname uint32, param int32)
	PixelStorei(pname uint32, param int32)

	// Immediate mode.
	Begin(mode uint32)
	End()
	Color3f(r, g, b float32)
	Color4f(r, g, b, a float32)
	TexCoord2f(s, t float32)
	Vertex2f(x, y float32)
	Vertex3f(x, y, z float32)

	MatrixMode(mode uint32)
	LoadIdentity()
	PushMatrix()
	PopMatrix()
	Ortho(left, right, bottom, top, near, far float64)
	Frustum(left, right, bottom, top, near, far float64)
	Translatef(x, y, z float32)
	Rotatef(angle, x, y, z float32)

	ReadPixels(x, y, width, height int32, format, xtype uint32, pixels unsafe.Pointer)
	Finish()
	GetError() uint32

	// GetString returns "" when name is unknown or no context is current.
	GetString(name uint32) string
}

func gostring(ptr *byte) string {
	if ptr == nil {
		return ""
	}
	n := 0
	for *(*byte)(unsafe.Add(unsafe.Pointer(ptr), n)) != 0 {
		n++
	}
	return string(unsafe.Slice(ptr, n))
}
