package console

func cmdPop(c *Console, args []string) error {
	if !c.viewer.DeleteModel() {
		c.printf("no model loaded\n")
		return nil
	}
	c.printf("%d models\n", c.viewer.Len())
	return nil
}

func cmdDup(c *Console, args []string) error {
	if err := c.viewer.Duplicate(); err != nil {
		return err
	}
	c.printf("%d models\n", c.viewer.Len())
	return nil
}

func cmdOrbit(c *Console, args []string) error {
	dx, err := parseFloat(args[0])
	if err != nil {
		return err
	}
	dy, err := parseFloat(args[1])
	if err != nil {
		return err
	}
	c.viewer.Orbit(dx, dy)
	return nil
}

func cmdZoom(c *Console, args []string) error {
	d, err := parseFloat(args[0])
	if err != nil {
		return err
	}
	c.viewer.Zoom(d)
	return nil
}

func cmdPan(c *Console, args []string) error {
	dx, err := parseFloat(args[0])
	if err != nil {
		return err
	}
	dy, err := parseFloat(args[1])
	if err != nil {
		return err
	}
	c.viewer.Pan(dx, dy)
	return nil
}

func cmdCamCoords(c *Console, args []string) error {
	on, err := parseOnOff(args[0])
	if err != nil {
		return err
	}
	c.viewer.UseCameraCoordinates(on)
	return nil
}
