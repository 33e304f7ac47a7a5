package console

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chewxy/math32"

	"github.com/Faultbox/sceneview/internal/scene"
	"github.com/Faultbox/sceneview/pkg/math"
)

func parseFloat(s string) (float32, error) {
	f, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrUsage, s)
	}
	return float32(f), nil
}

func parseVec3(args []string) (math.Vec3, error) {
	if len(args) < 3 {
		return math.Vec3{}, fmt.Errorf("%w: need x y z", ErrUsage)
	}
	var xyz [3]float32
	for i := range xyz {
		f, err := parseFloat(args[i])
		if err != nil {
			return math.Vec3{}, err
		}
		xyz[i] = f
	}
	return math.Vec3{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}

// parseRotation reads "<deg> <x> <y> <z>" into radians and a unit axis.
func parseRotation(args []string) (float32, math.Vec3, error) {
	if len(args) < 4 {
		return 0, math.Vec3{}, fmt.Errorf("%w: need deg x y z", ErrUsage)
	}
	deg, err := parseFloat(args[0])
	if err != nil {
		return 0, math.Vec3{}, err
	}
	axis, err := parseVec3(args[1:])
	if err != nil {
		return 0, math.Vec3{}, err
	}
	if axis.Length() == 0 {
		return 0, math.Vec3{}, fmt.Errorf("%w: rotation axis is zero", ErrUsage)
	}
	return deg * math32.Pi / 180, axis.Normalize(), nil
}

func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("%w: expected on or off, got %q", ErrUsage, s)
}

func cmdTranslate(c *Console, args []string) error {
	d, err := parseVec3(args)
	if err != nil {
		return err
	}
	if c.target == TargetViewer {
		return c.viewer.Translate(d)
	}
	return c.graph.Translate(d)
}

func cmdScale(c *Console, args []string) error {
	d, err := parseVec3(args)
	if err != nil {
		return err
	}
	if c.target == TargetViewer {
		return c.viewer.Scale(d)
	}
	return c.graph.Scale(d)
}

func cmdRotate(c *Console, args []string) error {
	angle, axis, err := parseRotation(args)
	if err != nil {
		return err
	}
	if c.target == TargetViewer {
		return c.viewer.Rotate(angle, axis)
	}
	return c.graph.Rotate(angle, axis)
}

func cmdReset(c *Console, args []string) error {
	if c.target == TargetViewer {
		if !c.viewer.LoadIdentity() {
			c.printf("no model loaded\n")
		}
		return nil
	}
	return c.graph.Reset()
}

// cmdSet replaces one part of the transform, leaving the rest as is.
func cmdSet(c *Console, args []string) error {
	apply := func(t *math.Transform) error {
		switch strings.ToLower(args[0]) {
		case "translation", "t":
			v, err := parseVec3(args[1:])
			if err != nil {
				return err
			}
			t.Translation = v
		case "scale", "scaling", "s":
			v, err := parseVec3(args[1:])
			if err != nil {
				return err
			}
			t.Scaling = v
		case "rotation", "r":
			angle, axis, err := parseRotation(args[1:])
			if err != nil {
				return err
			}
			t.Rotation = math.AxisAngle(axis, angle)
		default:
			return fmt.Errorf("%w: set translation|scale|rotation ...", ErrUsage)
		}
		return nil
	}

	if c.target == TargetViewer {
		t, err := c.viewer.Transform()
		if err != nil {
			return err
		}
		if err := apply(&t); err != nil {
			return err
		}
		return c.viewer.SetTransform(t)
	}

	s, err := c.graph.BeginEdit()
	if err != nil {
		return err
	}
	if err := apply(&s.Transform); err != nil {
		return err
	}
	return c.graph.ApplyEdit(s)
}

func cmdShow(c *Console, args []string) error {
	var t math.Transform
	if c.target == TargetViewer {
		vt, err := c.viewer.Transform()
		if err != nil {
			return err
		}
		t = vt
	} else {
		s, err := c.graph.BeginEdit()
		if err != nil {
			return err
		}
		t = s.Transform
	}
	c.printf("translation %g %g %g\n", t.Translation.X, t.Translation.Y, t.Translation.Z)
	c.printf("scaling     %g %g %g\n", t.Scaling.X, t.Scaling.Y, t.Scaling.Z)
	for row := 0; row < 3; row++ {
		label := "rotation"
		if row > 0 {
			label = ""
		}
		c.printf("%-11s %.4f %.4f %.4f\n", label, t.Rotation.At(row, 0), t.Rotation.At(row, 1), t.Rotation.At(row, 2))
	}
	return nil
}

func cmdMode(c *Console, args []string) error {
	mode, err := scene.ParseRenderMode(args[0])
	if err != nil {
		return err
	}
	if c.target == TargetViewer {
		c.viewer.SetMode(mode)
		return nil
	}
	attr, ok := c.graph.Attribute()
	if !ok {
		return ErrNoAttribute
	}
	attr.Mode = mode
	return nil
}

func cmdNormals(c *Console, args []string) error {
	on, err := parseOnOff(args[1])
	if err != nil {
		return err
	}
	which := strings.ToLower(args[0])
	if which != "face" && which != "vertex" {
		return fmt.Errorf("%w: normals face|vertex on|off", ErrUsage)
	}

	if c.target == TargetViewer {
		if which == "face" {
			c.viewer.ShowFaceNormals(on)
		} else {
			c.viewer.ShowVertexNormals(on)
		}
		return nil
	}
	attr, ok := c.graph.Attribute()
	if !ok {
		return ErrNoAttribute
	}
	if which == "face" {
		attr.ShowFaceNormals = on
	} else {
		attr.ShowVertexNormals = on
	}
	return nil
}
