package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/pymaceuticals-cli/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Input tables. Relative paths resolve against DataDir.
	DataDir      string `mapstructure:"data_dir" yaml:"data_dir"`
	MetadataFile string `mapstructure:"metadata_file" yaml:"metadata_file" validate:"required"`
	ResultsFile  string `mapstructure:"results_file" yaml:"results_file" validate:"required"`
	SheetName    string `mapstructure:"sheet_name" yaml:"sheet_name"`
	OutputDir    string `mapstructure:"output_dir" yaml:"output_dir"`

	// Analysis
	ExcludeIDs     []string `mapstructure:"exclude_ids" yaml:"exclude_ids"`
	Regimens       []string `mapstructure:"regimens" yaml:"regimens" validate:"min=1,dive,required"`
	LineSubject    string   `mapstructure:"line_subject" yaml:"line_subject"`
	ScatterRegimen string   `mapstructure:"scatter_regimen" yaml:"scatter_regimen"`
	OutlierScope   string   `mapstructure:"outlier_scope" yaml:"outlier_scope" validate:"oneof=regimen population"`
	IQRMultiplier  float64  `mapstructure:"iqr_multiplier" yaml:"iqr_multiplier" validate:"gt=0"`
	ParallelGroups int      `mapstructure:"parallel_groups" yaml:"parallel_groups" validate:"gte=1,lte=64"`

	// Charts
	ChartWidth  int `mapstructure:"chart_width" yaml:"chart_width" validate:"gte=200"`
	ChartHeight int `mapstructure:"chart_height" yaml:"chart_height" validate:"gte=150"`

	LogFormat string `mapstructure:"log_format" yaml:"log_format" validate:"oneof=console json"`
}

var validate = validator.New()

// Validate checks field constraints.
func (c *Global) Validate() error {
	if err := validate.Struct(c); err != nil {
		if ves, ok := err.(validator.ValidationErrors); ok {
			msgs := make([]string, 0, len(ves))
			for _, fe := range ves {
				msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Field(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// MetadataPath returns the metadata file resolved against DataDir.
func (c *Global) MetadataPath() string { return c.resolve(c.MetadataFile) }

// ResultsPath returns the results file resolved against DataDir.
func (c *Global) ResultsPath() string { return c.resolve(c.ResultsFile) }

func (c *Global) resolve(p string) string { return utils.ResolveUnder(c.DataDir, p) }

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.pymaceuticals/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := configDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (applied by the caller) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("PYMACEUTICALS")
	v.AutomaticEnv()

	v.SetDefault("data_dir", "data")
	v.SetDefault("metadata_file", "mouse_metadata.csv")
	v.SetDefault("results_file", "study_results.csv")
	v.SetDefault("sheet_name", "")
	v.SetDefault("output_dir", "")
	v.SetDefault("exclude_ids", []string{})
	v.SetDefault("regimens", []string{"Capomulin", "Ramicane", "Infubinol", "Ceftamin"})
	v.SetDefault("line_subject", "l509")
	v.SetDefault("scatter_regimen", "Capomulin")
	v.SetDefault("outlier_scope", "regimen")
	v.SetDefault("iqr_multiplier", 1.5)
	v.SetDefault("parallel_groups", 4)
	v.SetDefault("chart_width", 800)
	v.SetDefault("chart_height", 500)
	v.SetDefault("log_format", "console")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".pymaceuticals"), nil
}
