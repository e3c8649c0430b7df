// package devicetest provides an in-memory device.Device implementation for
// tests. It records every call and draw command, tracks live resource handles
// so leak assertions are possible, and can be scripted to fail resource
// creation for specific labels.
package devicetest

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/particleview/viewport/device"
)

// Device is a recording fake implementing device.Device. The zero value is not
// usable; construct with New.
//
// All creation methods succeed unless the resource's label has an entry in
// FailCreate, in which case that error is returned instead.
type Device struct {
	mu sync.Mutex

	// FailCreate maps resource labels to errors. When a Create* call is made
	// with a matching label, the mapped error is returned and no handle is
	// issued.
	FailCreate map[string]error

	nextHandle uint64

	liveBuffers  map[device.Buffer]string
	liveTextures map[device.Texture]string
	livePrograms map[device.Program]string

	bufferData map[device.Buffer][]byte

	calls  []string
	draws  []device.DrawCommand
	frames int

	inFrame bool
	closed  bool
}

var _ device.Device = &Device{}

// New creates an empty recording device.
func New() *Device {
	return &Device{
		FailCreate:   make(map[string]error),
		liveBuffers:  make(map[device.Buffer]string),
		liveTextures: make(map[device.Texture]string),
		livePrograms: make(map[device.Program]string),
		bufferData:   make(map[device.Buffer][]byte),
	}
}

// Calls returns the ordered method call log, formatted as "Method(label)" for
// creation calls and bare method names otherwise.
func (d *Device) Calls() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.calls...)
}

// Draws returns every draw command submitted since construction, in order.
func (d *Device) Draws() []device.DrawCommand {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]device.DrawCommand(nil), d.draws...)
}

// Frames returns the number of completed BeginFrame/EndFrame cycles.
func (d *Device) Frames() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frames
}

// LiveBuffers returns the labels of buffers that have been created but not
// destroyed.
func (d *Device) LiveBuffers() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, 0, len(d.liveBuffers))
	for _, label := range d.liveBuffers {
		out = append(out, label)
	}
	return out
}

// LiveTextures returns the labels of textures that have been created but not
// destroyed.
func (d *Device) LiveTextures() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, 0, len(d.liveTextures))
	for _, label := range d.liveTextures {
		out = append(out, label)
	}
	return out
}

// LivePrograms returns the labels of programs that have been created but not
// destroyed.
func (d *Device) LivePrograms() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, 0, len(d.livePrograms))
	for _, label := range d.livePrograms {
		out = append(out, label)
	}
	return out
}

// LiveResourceCount returns the total number of buffers, textures, and
// programs that have been created but not destroyed.
func (d *Device) LiveResourceCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.liveBuffers) + len(d.liveTextures) + len(d.livePrograms)
}

// BufferData returns the bytes most recently uploaded to buf, or nil if the
// buffer is unknown or was never written.
func (d *Device) BufferData(buf device.Buffer) []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]byte(nil), d.bufferData[buf]...)
}

// Closed reports whether Close has been called.
func (d *Device) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

func (d *Device) CreateVertexBuffer(label string, data []byte, usage device.BufferUsage) (device.Buffer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, fmt.Sprintf("CreateVertexBuffer(%s)", label))
	if err := d.FailCreate[label]; err != nil {
		return 0, err
	}
	d.nextHandle++
	handle := device.Buffer(d.nextHandle)
	d.liveBuffers[handle] = label
	d.bufferData[handle] = append([]byte(nil), data...)
	return handle, nil
}

func (d *Device) UploadVertexBuffer(buf device.Buffer, data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, "UploadVertexBuffer")
	if _, ok := d.liveBuffers[buf]; !ok {
		return fmt.Errorf("unknown vertex buffer handle %d", buf)
	}
	d.bufferData[buf] = append([]byte(nil), data...)
	return nil
}

func (d *Device) CreateIndexBuffer(label string, indices []uint16) (device.Buffer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, fmt.Sprintf("CreateIndexBuffer(%s)", label))
	if err := d.FailCreate[label]; err != nil {
		return 0, err
	}
	d.nextHandle++
	handle := device.Buffer(d.nextHandle)
	d.liveBuffers[handle] = label
	return handle, nil
}

func (d *Device) CreateTexture(label string, img device.Image) (device.Texture, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, fmt.Sprintf("CreateTexture(%s)", label))
	if err := d.FailCreate[label]; err != nil {
		return 0, err
	}
	d.nextHandle++
	handle := device.Texture(d.nextHandle)
	d.liveTextures[handle] = label
	return handle, nil
}

func (d *Device) CreateCubemap(label string, faces [6]device.Image) (device.Texture, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, fmt.Sprintf("CreateCubemap(%s)", label))
	if err := d.FailCreate[label]; err != nil {
		return 0, err
	}
	d.nextHandle++
	handle := device.Texture(d.nextHandle)
	d.liveTextures[handle] = label
	return handle, nil
}

func (d *Device) CreateProgram(label string, desc device.ProgramDescriptor) (device.Program, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, fmt.Sprintf("CreateProgram(%s)", label))
	if err := d.FailCreate[label]; err != nil {
		return 0, err
	}
	d.nextHandle++
	handle := device.Program(d.nextHandle)
	d.livePrograms[handle] = label
	return handle, nil
}

func (d *Device) DestroyBuffer(buf device.Buffer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, "DestroyBuffer")
	delete(d.liveBuffers, buf)
	delete(d.bufferData, buf)
}

func (d *Device) DestroyTexture(tex device.Texture) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, "DestroyTexture")
	delete(d.liveTextures, tex)
}

func (d *Device) DestroyProgram(prog device.Program) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, "DestroyProgram")
	delete(d.livePrograms, prog)
}

func (d *Device) Resize(width, height int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, fmt.Sprintf("Resize(%d,%d)", width, height))
}

func (d *Device) BeginFrame() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, "BeginFrame")
	if d.inFrame {
		return fmt.Errorf("BeginFrame called within an open frame")
	}
	d.inFrame = true
	return nil
}

func (d *Device) Draw(cmd device.DrawCommand) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, "Draw")
	d.draws = append(d.draws, cmd)
}

func (d *Device) EndFrame() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, "EndFrame")
	if d.inFrame {
		d.frames++
		d.inFrame = false
	}
}

func (d *Device) Present() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, "Present")
}

func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, "Close")
	d.closed = true
	return nil
}
