//go:build windows

package gl

import (
	"fmt"
	"math"
	"unsafe"

	"golang.org/x/sys/windows"
)

var opengl32 = windows.NewLazySystemDLL("opengl32.dll")

// openGL calls opengl32 through lazy procs. The x64 calling convention loads
// the first four arguments into both integer and XMM registers, so floats
// travel as their bit patterns.
type openGL struct {
	clearColor     *windows.LazyProc
	clearDepth     *windows.LazyProc
	clear          *windows.LazyProc
	viewport       *windows.LazyProc
	enable         *windows.LazyProc
	disable        *windows.LazyProc
	depthFunc      *windows.LazyProc
	blendFunc      *windows.LazyProc
	genTextures    *windows.LazyProc
	deleteTextures *windows.LazyProc
	bindTexture    *windows.LazyProc
	texImage2D     *windows.LazyProc
	texSubImage2D  *windows.LazyProc
	texParameteri  *windows.LazyProc
	pixelStorei    *windows.LazyProc
	begin          *windows.LazyProc
	end            *windows.LazyProc
	color3f        *windows.LazyProc
	color4f        *windows.LazyProc
	texCoord2f     *windows.LazyProc
	vertex2f       *windows.LazyProc
	vertex3f       *windows.LazyProc
	matrixMode     *windows.LazyProc
	loadIdentity   *windows.LazyProc
	pushMatrix     *windows.LazyProc
	popMatrix      *windows.LazyProc
	ortho          *windows.LazyProc
	frustum        *windows.LazyProc
	translatef     *windows.LazyProc
	rotatef        *windows.LazyProc
	readPixels     *windows.LazyProc
	finish         *windows.LazyProc
	getError       *windows.LazyProc
	getString      *windows.LazyProc
}

// Load resolves the GL 1.1 entry points exported by opengl32.dll.
func Load() (OpenGL, error) {
	gl := &openGL{}
	procs := []struct {
		dst  **windows.LazyProc
		name string
	}{
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
	}
	for _, p := range procs {
		proc := opengl32.NewProc(p.name)
		if err := proc.Find(); err != nil {
			return nil, fmt.Errorf("resolve %s: %w", p.name, err)
		}
		*p.dst = proc
	}
	return gl, nil
}

func (gl *openGL) ClearColor(r, g, b, a float32) { gl.clearColor.Call(f32(r), f32(g), f32(b), f32(a)) }
func (gl *openGL) ClearDepth(depth float64)      { gl.clearDepth.Call(f64(depth)) }
func (gl *openGL) Clear(mask uint32)             { gl.clear.Call(uintptr(mask)) }

func (gl *openGL) Viewport(x, y, width, height int32) {
	gl.viewport.Call(uintptr(x), uintptr(y), uintptr(width), uintptr(height))
}

func (gl *openGL) Enable(cap uint32)                 { gl.enable.Call(uintptr(cap)) }
func (gl *openGL) Disable(cap uint32)                { gl.disable.Call(uintptr(cap)) }
func (gl *openGL) DepthFunc(fn uint32)               { gl.depthFunc.Call(uintptr(fn)) }
func (gl *openGL) BlendFunc(sfactor, dfactor uint32) { gl.blendFunc.Call(uintptr(sfactor), uintptr(dfactor)) }

func (gl *openGL) GenTextures(n int32, textures *uint32) {
	gl.genTextures.Call(uintptr(n), uintptr(unsafe.Pointer(textures)))
}

func (gl *openGL) DeleteTextures(n int32, textures *uint32) {
	gl.deleteTextures.Call(uintptr(n), uintptr(unsafe.Pointer(textures)))
}

func (gl *openGL) BindTexture(target, texture uint32) {
	gl.bindTexture.Call(uintptr(target), uintptr(texture))
}

func (gl *openGL) TexImage2D(target uint32, level, internalFormat, width, height, border int32, format, xtype uint32, pixels unsafe.Pointer) {
	gl.texImage2D.Call(uintptr(target), uintptr(level), uintptr(internalFormat), uintptr(width), uintptr(height), uintptr(border), uintptr(format), uintptr(xtype), uintptr(pixels))
}

func (gl *openGL) TexSubImage2D(target uint32, level, xoffset, yoffset, width, height int32, format, xtype uint32, pixels unsafe.Pointer) {
	gl.texSubImage2D.Call(uintptr(target), uintptr(level), uintptr(xoffset), uintptr(yoffset), uintptr(width), uintptr(height), uintptr(format), uintptr(xtype), uintptr(pixels))
}

func (gl *openGL) TexParameteri(target, pname uint32, param int32) {
	gl.texParameteri.Call(uintptr(target), uintptr(pname), uintptr(param))
}

func (gl *openGL) PixelStorei(pname uint32, param int32) {
	gl.pixelStorei.Call(uintptr(pname), uintptr(param))
}

func (gl *openGL) Begin(mode uint32)          { gl.begin.Call(uintptr(mode)) }
func (gl *openGL) End()                       { gl.end.Call() }
func (gl *openGL) Color3f(r, g, b float32)    { gl.color3f.Call(f32(r), f32(g), f32(b)) }
func (gl *openGL) Color4f(r, g, b, a float32) { gl.color4f.Call(f32(r), f32(g), f32(b), f32(a)) }
func (gl *openGL) TexCoord2f(s, t float32)    { gl.texCoord2f.Call(f32(s), f32(t)) }
func (gl *openGL) Vertex2f(x, y float32)      { gl.vertex2f.Call(f32(x), f32(y)) }
func (gl *openGL) Vertex3f(x, y, z float32)   { gl.vertex3f.Call(f32(x), f32(y), f32(z)) }
func (gl *openGL) MatrixMode(mode uint32)     { gl.matrixMode.Call(uintptr(mode)) }
func (gl *openGL) LoadIdentity()              { gl.loadIdentity.Call() }
func (gl *openGL) PushMatrix()                { gl.pushMatrix.Call() }
func (gl *openGL) PopMatrix()                 { gl.popMatrix.Call() }
func (gl *openGL) Translatef(x, y, z float32) { gl.translatef.Call(f32(x), f32(y), f32(z)) }

func (gl *openGL) Rotatef(angle, x, y, z float32) {
	gl.rotatef.Call(f32(angle), f32(x), f32(y), f32(z))
}

func (gl *openGL) Ortho(left, right, bottom, top, near, far float64) {
	gl.ortho.Call(f64(left), f64(right), f64(bottom), f64(top), f64(near), f64(far))
}

func (gl *openGL) Frustum(left, right, bottom, top, near, far float64) {
	gl.frustum.Call(f64(left), f64(right), f64(bottom), f64(top), f64(near), f64(far))
}

func (gl *openGL) ReadPixels(x, y, width, height int32, format, xtype uint32, pixels unsafe.Pointer) {
	gl.readPixels.Call(uintptr(x), uintptr(y), uintptr(width), uintptr(height), uintptr(format), uintptr(xtype), uintptr(pixels))
}

func (gl *openGL) Finish() { gl.finish.Call() }

func (gl *openGL) GetError() uint32 {
	r, _, _ := gl.getError.Call()
	return uint32(r)
}

func (gl *openGL) GetString(name uint32) string {
	r, _, _ := gl.getString.Call(uintptr(name))
	return gostring((*byte)(unsafe.Pointer(r)))
}

func f32(v float32) uintptr { return uintptr(math.Float32bits(v)) }
func f64(v float64) uintptr { return uintptr(math.Float64bits(v)) }
