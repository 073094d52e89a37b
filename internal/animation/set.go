package animation

// Set advances and applies a group of drivers in registration order, once per frame.
type Set struct {
	// TimeScale multiplies dt in Step. Zero means 1.
	TimeScale float64

	drivers []*Driver
}

// Add registers drivers.
func (s *Set) Add(ds ...*Driver) {
	s.drivers = append(s.drivers, ds...)
}

// Drivers returns the registered drivers.
func (s *Set) Drivers() []*Driver { return s.drivers }

// Find returns the driver with the given name, if any.
func (s *Set) Find(name string) (*Driver, bool) {
	for _, d := range s.drivers {
		if d.Name == name {
			return d, true
		}
	}
	return nil, false
}

// Tick advances every driver by one sample and applies it.
func (s *Set) Tick() error {
	for _, d := range s.drivers {
		d.Advance()
		if err := d.Apply(); err != nil {
			return err
		}
	}
	return nil
}

// Step advances every driver by elapsed time dt and applies it.
func (s *Set) Step(dt float64) error {
	scale := s.TimeScale
	if scale == 0 {
		scale = 1
	}
	for _, d := range s.drivers {
		d.Step(dt * scale)
		if err := d.Apply(); err != nil {
			return err
		}
	}
	return nil
}

// Apply writes every driver's current sample without advancing.
func (s *Set) Apply() error {
	for _, d := range s.drivers {
		if err := d.Apply(); err != nil {
			return err
		}
	}
	return nil
}
