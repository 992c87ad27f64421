package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server      Server             `yaml:"server"`
	Database    Database           `yaml:"database"`
	Queue       Queue              `yaml:"queue"`
	Departments []DepartmentConfig `yaml:"departments"`
}

// Server holds the HTTP server configuration.
type Server struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// Database holds the database connection configuration.
type Database struct {
	Driver                 string `yaml:"driver"` // "sqlite" or "postgres"
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// Queue holds the queue engine tuning: the no-show grace period, the
// crowd-level threshold tables and the background sweep cadence.
type Queue struct {
	GracePeriodMinutes    int           `yaml:"grace_period_minutes"`
	GracePeriod           time.Duration `yaml:"-"` // Ignored by YAML parser
	DepartmentLowMax      int           `yaml:"department_low_max"`
	DepartmentModerateMax int           `yaml:"department_moderate_max"`
	HospitalLowMax        int           `yaml:"hospital_low_max"`
	HospitalModerateMax   int           `yaml:"hospital_moderate_max"`
	BackgroundSweep       bool          `yaml:"background_sweep"`
	SweepIntervalSeconds  int           `yaml:"sweep_interval_seconds"`
	SweepInterval         time.Duration `yaml:"-"` // Ignored by YAML parser
}

// DepartmentConfig describes one fixed service department.
type DepartmentConfig struct {
	ID                    int64  `yaml:"id"`
	Name                  string `yaml:"name"`
	Description           string `yaml:"description"`
	AverageServiceMinutes int    `yaml:"average_service_minutes"`
}

// DefaultDepartments is the department set used when the config file
// does not list its own.
func DefaultDepartments() []DepartmentConfig {
	return []DepartmentConfig{
		{ID: 1, Name: "Doctor Consultation", Description: "General physician consultation", AverageServiceMinutes: 15},
		{ID: 2, Name: "Pharmacy / Medicine Pickup", Description: "Collect prescribed medicines", AverageServiceMinutes: 5},
		{ID: 3, Name: "Blood Test / Laboratory", Description: "Blood tests and lab work", AverageServiceMinutes: 10},
		{ID: 4, Name: "Radiology / Scanning (X-ray, MRI, CT)", Description: "Medical imaging services", AverageServiceMinutes: 20},
		{ID: 5, Name: "Medical Report Collection", Description: "Collect test reports and documents", AverageServiceMinutes: 3},
	}
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 300
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "hospital_queue.db"
	}

	if cfg.Queue.GracePeriodMinutes <= 0 {
		cfg.Queue.GracePeriodMinutes = 5
	}
	cfg.Queue.GracePeriod = time.Duration(cfg.Queue.GracePeriodMinutes) * time.Minute

	if cfg.Queue.DepartmentLowMax <= 0 {
		cfg.Queue.DepartmentLowMax = 10
	}
	if cfg.Queue.DepartmentModerateMax <= 0 {
		cfg.Queue.DepartmentModerateMax = 25
	}
	if cfg.Queue.HospitalLowMax <= 0 {
		cfg.Queue.HospitalLowMax = 40
	}
	if cfg.Queue.HospitalModerateMax <= 0 {
		cfg.Queue.HospitalModerateMax = 80
	}

	if cfg.Queue.SweepIntervalSeconds <= 0 {
		cfg.Queue.SweepIntervalSeconds = 30
	}
	cfg.Queue.SweepInterval = time.Duration(cfg.Queue.SweepIntervalSeconds) * time.Second

	if len(cfg.Departments) == 0 {
		log.Printf("no departments configured; using the default department set")
		cfg.Departments = DefaultDepartments()
	}

	if err := validateDepartments(cfg.Departments); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validateDepartments(departments []DepartmentConfig) error {
	seen := make(map[int64]bool, len(departments))
	for _, d := range departments {
		if d.ID <= 0 {
			return fmt.Errorf("department %q: id must be positive", d.Name)
		}
		if seen[d.ID] {
			return fmt.Errorf("duplicate department id %d", d.ID)
		}
		seen[d.ID] = true
		if d.Name == "" {
			return fmt.Errorf("department %d: name is required", d.ID)
		}
		if d.AverageServiceMinutes <= 0 {
			return fmt.Errorf("department %q: average_service_minutes must be positive", d.Name)
		}
	}
	return nil
}
