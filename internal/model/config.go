package model

// Threshold is a warn/crit pair for one metric. Loaded once at startup,
// read-only afterwards. warn < crit by convention (not enforced).
type Threshold struct {
	Warn float64 `yaml:"warn"`
	Crit float64 `yaml:"crit"`
}

// ServiceSpec is one service health check target on the local host.
type ServiceSpec struct {
	Name string `yaml:"name"`
	Port uint16 `yaml:"port"`
}
