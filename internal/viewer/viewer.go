// Package viewer implements a single-model inspector: a stack of meshes, an
// orbit camera framed on the top mesh, and display toggles.
package viewer

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/sceneview/internal/camera"
	"github.com/Faultbox/sceneview/internal/logger"
	"github.com/Faultbox/sceneview/internal/mesh"
	"github.com/Faultbox/sceneview/internal/scene"
	"github.com/Faultbox/sceneview/pkg/formats"
	"github.com/Faultbox/sceneview/pkg/math"
)

// ErrEmpty is returned by operations that need a model when the stack is empty.
var ErrEmpty = errors.New("no model loaded")

// ModelViewer shows the top of a stack of meshes.
type ModelViewer struct {
	Camera *camera.OrbitCamera

	models []*mesh.Mesh

	mode              scene.RenderMode
	showFaceNormals   bool
	showVertexNormals bool
	cameraCoordinates bool

	log *zap.Logger
}

// New creates an empty viewer in lit mode using cam, or a default orbit
// camera when cam is nil.
func New(cam *camera.OrbitCamera) *ModelViewer {
	if cam == nil {
		cam = camera.NewOrbitCamera()
	}
	return &ModelViewer{
		Camera: cam,
		mode:   scene.ModeLit,
		log:    logger.Named("viewer"),
	}
}

// LoadModel parses the mesh file at path, pushes it and frames the camera
// on it. Nothing is pushed when the file cannot be read.
func (v *ModelViewer) LoadModel(path string) (formats.OBJStats, error) {
	m := mesh.New(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	stats, err := formats.LoadOBJ(path, m)
	if err != nil {
		return stats, err
	}
	v.Push(m)
	v.log.Info("model loaded",
		zap.String("path", path),
		zap.Int("vertices", stats.Vertices),
		zap.Int("faces", stats.Faces),
		zap.Int("skipped_lines", stats.SkippedLines),
		zap.Int("rejected_faces", stats.RejectedFaces))
	return stats, nil
}

// Push makes m the displayed model and frames the camera on it.
func (v *ModelViewer) Push(m *mesh.Mesh) {
	v.models = append(v.models, m)
	v.Camera.FitToMesh(m.Origin(), m.MaxDelta())
}

// DeleteModel pops the displayed model. It reports whether one was removed.
// The camera is left where it is.
func (v *ModelViewer) DeleteModel() bool {
	if len(v.models) == 0 {
		return false
	}
	v.models[len(v.models)-1] = nil
	v.models = v.models[:len(v.models)-1]
	return true
}

// LoadIdentity resets the transform of the displayed model.
func (v *ModelViewer) LoadIdentity() bool {
	m := v.Top()
	if m == nil {
		return false
	}
	m.Identity()
	return true
}

// Duplicate pushes a deep copy of the displayed model, transform included.
func (v *ModelViewer) Duplicate() error {
	m := v.Top()
	if m == nil {
		return ErrEmpty
	}
	dup, err := m.Clone()
	if err != nil {
		return fmt.Errorf("duplicating model: %w", err)
	}
	v.models = append(v.models, dup)
	return nil
}

// Top returns the displayed model, or nil.
func (v *ModelViewer) Top() *mesh.Mesh {
	if len(v.models) == 0 {
		return nil
	}
	return v.models[len(v.models)-1]
}

// Len returns the stack depth.
func (v *ModelViewer) Len() int { return len(v.models) }

// SetMode sets how the model is drawn.
func (v *ModelViewer) SetMode(m scene.RenderMode) { v.mode = m }

// Mode returns the render mode.
func (v *ModelViewer) Mode() scene.RenderMode { return v.mode }

// ShowFaceNormals toggles face normal lines.
func (v *ModelViewer) ShowFaceNormals(show bool) { v.showFaceNormals = show }

// ShowVertexNormals toggles vertex normal lines.
func (v *ModelViewer) ShowVertexNormals(show bool) { v.showVertexNormals = show }

// UseCameraCoordinates makes Translate and Rotate read their vectors in the
// camera basis (x right, y up, z toward the eye) instead of model axes.
func (v *ModelViewer) UseCameraCoordinates(on bool) { v.cameraCoordinates = on }

// CameraCoordinates reports whether edits are read in the camera basis.
func (v *ModelViewer) CameraCoordinates() bool { return v.cameraCoordinates }

// Translate moves the displayed model by d.
func (v *ModelViewer) Translate(d math.Vec3) error {
	m := v.Top()
	if m == nil {
		return ErrEmpty
	}
	if v.cameraCoordinates {
		// translation is applied before scale and rotation
		t := m.Transform
		d = t.Rotation.Transpose().MulVec3(v.toWorld(d)).Div(t.Scaling)
	}
	m.Translate(d)
	return nil
}

// Scale adds d to the scale factors of the displayed model. Scaling is always
// along model axes.
func (v *ModelViewer) Scale(d math.Vec3) error {
	m := v.Top()
	if m == nil {
		return ErrEmpty
	}
	m.Scale(d)
	return nil
}

// Rotate turns the displayed model by angle radians about a unit axis.
func (v *ModelViewer) Rotate(angle float32, axis math.Vec3) error {
	m := v.Top()
	if m == nil {
		return ErrEmpty
	}
	if v.cameraCoordinates {
		axis = m.Transform.Rotation.Transpose().MulVec3(v.toWorld(axis))
	}
	m.Rotate(angle, axis)
	return nil
}

// Transform returns a copy of the displayed model's transform.
func (v *ModelViewer) Transform() (math.Transform, error) {
	m := v.Top()
	if m == nil {
		return math.Transform{}, ErrEmpty
	}
	return m.Transform, nil
}

// SetTransform replaces the displayed model's transform.
func (v *ModelViewer) SetTransform(t math.Transform) error {
	m := v.Top()
	if m == nil {
		return ErrEmpty
	}
	m.Transform = t
	return nil
}

// Orbit, Zoom and Pan forward to the camera.
func (v *ModelViewer) Orbit(dx, dy float32) { v.Camera.Orbit(dx, dy) }

func (v *ModelViewer) Zoom(delta float32) { v.Camera.Zoom(delta) }

func (v *ModelViewer) Pan(dx, dy float32) { v.Camera.Pan(dx, dy) }

// Matrices returns the view and projection for the displayed model. ok is
// false when there is nothing to show.
func (v *ModelViewer) Matrices(aspect float32) (view, proj math.Mat4, ok bool) {
	m := v.Top()
	if m == nil {
		return math.Mat4{}, math.Mat4{}, false
	}
	return v.Camera.ViewMatrix(), v.Camera.Projection(aspect, m.MaxDelta()), true
}

// Render emits the displayed model as one world-space batch.
func (v *ModelViewer) Render(r scene.Renderer) bool {
	m := v.Top()
	if m == nil {
		return false
	}
	r.DrawBatch(scene.Batch{
		Node:              scene.NoNode,
		Name:              m.Name,
		Mode:              v.mode,
		ShowFaceNormals:   v.showFaceNormals,
		ShowVertexNormals: v.showVertexNormals,
		Faces:             scene.ResolveMesh(m, nil),
	})
	return true
}

func (v *ModelViewer) toWorld(d math.Vec3) math.Vec3 {
	right, up := v.Camera.Basis()
	back := v.Camera.Forward().Scale(-1)
	return right.Scale(d.X).Add(up.Scale(d.Y)).Add(back.Scale(d.Z))
}
