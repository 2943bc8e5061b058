//go:build linux

package gl

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
)

var libGL = sync.OnceValues(func() (uintptr, error) {
	lib, err := purego.Dlopen("libGL.so.1", purego.RTLD_LAZY|purego.RTLD_GLOBAL)
	if err != nil {
		return 0, fmt.Errorf("load libGL: %w", err)
	}
	return lib, nil
})

// bind resolves each symbol before registering it so a missing entry point
// is reported instead of panicking inside purego.
func bind(lib uintptr, syms []binding) error {
	for _, s := range syms {
		if _, err := purego.Dlsym(lib, s.name); err != nil {
			return fmt.Errorf("resolve %s: %w", s.name, err)
		}
		purego.RegisterLibFunc(s.fn, lib, s.name)
	}
	return nil
}

type binding struct {
	fn   any
	name string
}

type openGL struct {
	clearColor     func(float32, float32, float32, float32)
	clearDepth     func(float64)
	clear          func(uint32)
	viewport       func(int32, int32, int32, int32)
	enable         func(uint32)
	disable        func(uint32)
	depthFunc      func(uint32)
	blendFunc      func(uint32, uint32)
	genTextures    func(int32, *uint32)
	deleteTextures func(int32, *uint32)
	bindTexture    func(uint32, uint32)
	texImage2D     func(uint32, int32, int32, int32, int32, int32, uint32, uint32, unsafe.Pointer)
	texSubImage2D  func(uint32, int32, int32, int32, int32, int32, uint32, uint32, unsafe.Pointer)
	texParameteri  func(uint32, uint32, int32)
	pixelStorei    func(uint32, int32)
	begin          func(uint32)
	end            func()
	color3f        func(float32, float32, float32)
	color4f        func(float32, float32, float32, float32)
	texCoord2f     func(float32, float32)
	vertex2f       func(float32, float32)
	vertex3f       func(float32, float32, float32)
	matrixMode     func(uint32)
	loadIdentity   func()
	pushMatrix     func()
	popMatrix      func()
	ortho          func(float64, float64, float64, float64, float64, float64)
	frustum        func(float64, float64, float64, float64, float64, float64)
	translatef     func(float32, float32, float32)
	rotatef        func(float32, float32, float32, float32)
	readPixels     func(int32, int32, int32, int32, uint32, uint32, unsafe.Pointer)
	finish         func()
	getError       func() uint32
	getString      func(uint32) *byte
}

// Load binds the GL entry points from libGL. A context must be current before
// any of them is called.
func Load() (OpenGL, error) {
	lib, err := libGL()
	if err != nil {
		return nil, err
	}

	gl := &openGL{}
	err = bind(lib, []binding{
		{&gl.clearColor, "glClearColor"},
		{&gl.clearDepth, "glClearDepth"},
		{&gl.clear, "glClear"},
		{&gl.viewport, "glViewport"},
		{&gl.enable, "glEnable"},
		{&gl.disable, "glDisable"},
		{&gl.depthFunc, "glDepthFunc"},
		{&gl.blendFunc, "glBlendFunc"},
		{&gl.genTextures, "glGenTextures"},
		{&gl.deleteTextures, "glDeleteTextures"},
		{&gl.bindTexture, "glBindTexture"},
		{&gl.texImage2D, "glTexImage2D"},
		{&gl.texSubImage2D, "glTexSubImage2D"},
		{&gl.texParameteri, "glTexParameteri"},
		{&gl.pixelStorei, "glPixelStorei"},
		{&gl.begin, "glBegin"},
		{&gl.end, "glEnd"},
		{&gl.color3f, "glColor3f"},
		{&gl.color4f, "glColor4f"},
		{&gl.texCoord2f, "glTexCoord2f"},
		{&gl.vertex2f, "glVertex2f"},
		{&gl.vertex3f, "glVertex3f"},
		{&gl.matrixMode, "glMatrixMode"},
		{&gl.loadIdentity, "glLoadIdentity"},
		{&gl.pushMatrix, "glPushMatrix"},
		{&gl.popMatrix, "glPopMatrix"},
		{&gl.ortho, "glOrtho"},
		{&gl.frustum, "glFrustum"},
		{&gl.translatef, "glTranslatef"},
		{&gl.rotatef, "glRotatef"},
		{&gl.readPixels, "glReadPixels"},
		{&gl.finish, "glFinish"},
		{&gl.getError, "glGetError"},
		{&gl.getString, "glGetString"},
	})
	if err != nil {
		return nil, err
	}
	return gl, nil
}

func (gl *openGL) ClearColor(r, g, b, a float32)     { gl.clearColor(r, g, b, a) }
func (gl *openGL) ClearDepth(depth float64)          { gl.clearDepth(depth) }
func (gl *openGL) Clear(mask uint32)                 { gl.clear(mask) }
func (gl *openGL) Viewport(x, y, w, h int32)         { gl.viewport(x, y, w, h) }
func (gl *openGL) Enable(cap uint32)                 { gl.enable(cap) }
func (gl *openGL) Disable(cap uint32)                { gl.disable(cap) }
func (gl *openGL) DepthFunc(fn uint32)               { gl.depthFunc(fn) }
func (gl *openGL) BlendFunc(sfactor, dfactor uint32) { gl.blendFunc(sfactor, dfactor) }

func (gl *openGL) GenTextures(n int32, textures *uint32)    { gl.genTextures(n, textures) }
func (gl *openGL) DeleteTextures(n int32, textures *uint32) { gl.deleteTextures(n, textures) }
func (gl *openGL) BindTexture(target, texture uint32)       { gl.bindTexture(target, texture) }

func (gl *openGL) TexImage2D(target uint32, level, internalFormat, width, height, border int32, format, xtype uint32, pixels unsafe.Pointer) {
	gl.texImage2D(target, level, internalFormat, width, height, border, format, xtype, pixels)
}

func (gl *openGL) TexSubImage2D(target uint32, level, xoffset, yoffset, width, height int32, format, xtype uint32, pixels unsafe.Pointer) {
	gl.texSubImage2D(target, level, xoffset, yoffset, width, height, format, xtype, pixels)
}

func (gl *openGL) TexParameteri(target, pname uint32, param int32) {
	gl.texParameteri(target, pname, param)
}

func (gl *openGL) PixelStorei(pname uint32, param int32) { gl.pixelStorei(pname, param) }

func (gl *openGL) Begin(mode uint32)              { gl.begin(mode) }
func (gl *openGL) End()                           { gl.end() }
func (gl *openGL) Color3f(r, g, b float32)        { gl.color3f(r, g, b) }
func (gl *openGL) Color4f(r, g, b, a float32)     { gl.color4f(r, g, b, a) }
func (gl *openGL) TexCoord2f(s, t float32)        { gl.texCoord2f(s, t) }
func (gl *openGL) Vertex2f(x, y float32)          { gl.vertex2f(x, y) }
func (gl *openGL) Vertex3f(x, y, z float32)       { gl.vertex3f(x, y, z) }
func (gl *openGL) MatrixMode(mode uint32)         { gl.matrixMode(mode) }
func (gl *openGL) LoadIdentity()                  { gl.loadIdentity() }
func (gl *openGL) PushMatrix()                    { gl.pushMatrix() }
func (gl *openGL) PopMatrix()                     { gl.popMatrix() }
func (gl *openGL) Translatef(x, y, z float32)     { gl.translatef(x, y, z) }
func (gl *openGL) Rotatef(angle, x, y, z float32) { gl.rotatef(angle, x, y, z) }

func (gl *openGL) Ortho(left, right, bottom, top, near, far float64) {
	gl.ortho(left, right, bottom, top, near, far)
}

func (gl *openGL) Frustum(left, right, bottom, top, near, far float64) {
	gl.frustum(left, right, bottom, top, near, far)
}

func (gl *openGL) ReadPixels(x, y, width, height int32, format, xtype uint32, pixels unsafe.Pointer) {
	gl.readPixels(x, y, width, height, format, xtype, pixels)
}

func (gl *openGL) Finish()          { gl.finish() }
func (gl *openGL) GetError() uint32 { return gl.getError() }

func (gl *openGL) GetString(name uint32) string {
	return gostring(gl.getString(name))
}
