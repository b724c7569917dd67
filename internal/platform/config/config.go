package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultPath は CONFIG_PATH が未設定の場合に読み込む設定ファイルです。
	DefaultPath = "assets/local.yaml"

	StoreDriverMemory   = "memory"
	StoreDriverPostgres = "postgres"

	defaultBodyLimit    = 20 << 20
	defaultPollInterval = 2 * time.Second
	dateLayout          = "2006-01-02"
)

// Config はアプリケーション全体の設定を表現します。
type Config struct {
	Server    ServerConfig     `yaml:"server"`
	Portal    PortalConfig     `yaml:"portal"`
	Store     StoreConfig      `yaml:"store"`
	Database  DatabaseConfig   `yaml:"database"`
	Sync      SyncConfig       `yaml:"sync"`
	Log       LogConfig        `yaml:"log"`
	SeedCases []SeedCaseConfig `yaml:"seed_cases"`

	SeedEmployees []SeedEmployeeConfig `yaml:"seed_employees"`
}

// ServerConfig は gRPC サーバーに関する設定です。
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// PortalConfig は応募者向け HTTP ポータルの設定です。
type PortalConfig struct {
	ListenAddr string `yaml:"listen_addr"`
	BaseURL    string `yaml:"base_url"`
	BodyLimit  int    `yaml:"body_limit"`
}

// StoreConfig は共有ストアの設定です。
type StoreConfig struct {
	Driver       string `yaml:"driver"`
	SnapshotPath string `yaml:"snapshot_path"`
	Degraded     *bool  `yaml:"degraded"`
}

// DegradedEnabled は degraded モードでストアをラップするかどうかを返します。未設定の場合は true です。
func (s StoreConfig) DegradedEnabled() bool {
	return s.Degraded == nil || *s.Degraded
}

// DatabaseConfig は PostgreSQL 接続に関する設定です。
type DatabaseConfig struct {
	Host               string        `yaml:"host"`
	Port               int           `yaml:"port"`
	User               string        `yaml:"user"`
	Password           string        `yaml:"password"`
	Name               string        `yaml:"name"`
	SSLMode            string        `yaml:"ssl_mode"`
	MaxOpenConns       int           `yaml:"max_open_conns"`
	MaxIdleConns       int           `yaml:"max_idle_conns"`
	ConnMaxLifetime    time.Duration `yaml:"-"`
	ConnMaxIdleTime    time.Duration `yaml:"-"`
	ConnMaxLifetimeRaw string        `yaml:"conn_max_lifetime"`
	ConnMaxIdleTimeRaw string        `yaml:"conn_max_idle_time"`
}

// SyncConfig は入社スナップショットのポーリング設定です。
type SyncConfig struct {
	PollInterval    time.Duration `yaml:"-"`
	PollIntervalRaw string        `yaml:"poll_interval"`
}

// LogConfig はログ出力の設定です。
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// SeedCaseConfig はキャッシュが存在しない場合に投入する採用ケースです。
type SeedCaseConfig struct {
	ID                   string    `yaml:"id"`
	CandidateName        string    `yaml:"candidate_name"`
	Role                 string    `yaml:"role"`
	StartDateRaw         string    `yaml:"start_date"`
	ProbationEndDateRaw  string    `yaml:"probation_end_date"`
	StartDate            time.Time `yaml:"-"`
	ProbationEndDate     time.Time `yaml:"-"`
	MedicalClearanceDone bool      `yaml:"medical_clearance_done"`
	IntegrationDone      bool      `yaml:"integration_done"`
	DocumentsStatus      string    `yaml:"documents_status"`
	DocumentsSubmitted   []string  `yaml:"documents_submitted"`
	Token                string    `yaml:"token"`
}

// SeedEmployeeConfig は在籍社員レジストリが存在しない場合に投入するレコードです。
type SeedEmployeeConfig struct {
	ID             string         `yaml:"id"`
	Name           string         `yaml:"name"`
	Role           string         `yaml:"role"`
	StartDateRaw   string         `yaml:"start_date"`
	StartDate      time.Time      `yaml:"-"`
	Documents      []string       `yaml:"documents"`
	Bank           SeedBankConfig `yaml:"bank"`
	TransportValue string         `yaml:"transport_value"`
}

// SeedBankConfig は初期レコードの口座情報です。
type SeedBankConfig struct {
	Name    string `yaml:"name"`
	Agency  string `yaml:"agency"`
	Account string `yaml:"account"`
}

// LoadDotEnv はカレントディレクトリの .env を環境変数として読み込みます。ファイルがなければ何もしません。
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("config: load %s: %w", p, err)
		}
	}
	return nil
}

// PathFromEnv は CONFIG_PATH か既定のパスを返します。
func PathFromEnv() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return DefaultPath
}

// Load は指定されたパスから設定ファイルを読み込みます。${VAR} 形式は環境変数で展開されます。
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(b))), &cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := cfg.validateAndNormalize(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validateAndNormalize() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("config: server.listen_addr must be set")
	}

	if err := c.Portal.validateAndNormalize(); err != nil {
		return err
	}

	switch c.Store.Driver {
	case "":
		c.Store.Driver = StoreDriverMemory
	case StoreDriverMemory, StoreDriverPostgres:
	default:
		return fmt.Errorf("config: store.driver %q is not supported", c.Store.Driver)
	}

	if c.Store.Driver == StoreDriverPostgres {
		if err := c.Database.validateAndNormalize(); err != nil {
			return err
		}
	}

	interval, err := parseDurationAllowEmpty(c.Sync.PollIntervalRaw)
	if err != nil {
		return fmt.Errorf("config: sync.poll_interval: %w", err)
	}
	if interval < 0 {
		return fmt.Errorf("config: sync.poll_interval must not be negative")
	}
	if interval == 0 {
		interval = defaultPollInterval
	}
	c.Sync.PollInterval = interval

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	switch c.Log.Format {
	case "":
		c.Log.Format = "text"
	case "text", "json":
	default:
		return fmt.Errorf("config: log.format %q is not supported", c.Log.Format)
	}

	for i := range c.SeedCases {
		if err := c.SeedCases[i].validateAndNormalize(); err != nil {
			return fmt.Errorf("config: seed_cases[%d]: %w", i, err)
		}
	}

	for i := range c.SeedEmployees {
		if err := c.SeedEmployees[i].validateAndNormalize(); err != nil {
			return fmt.Errorf("config: seed_employees[%d]: %w", i, err)
		}
	}

	return nil
}

func (p *PortalConfig) validateAndNormalize() error {
	if p.ListenAddr == "" {
		return fmt.Errorf("config: portal.listen_addr must be set")
	}
	if p.BodyLimit < 0 {
		return fmt.Errorf("config: portal.body_limit must not be negative")
	}
	if p.BodyLimit == 0 {
		p.BodyLimit = defaultBodyLimit
	}
	if p.BaseURL == "" {
		_, port, err := net.SplitHostPort(p.ListenAddr)
		if err != nil {
			return fmt.Errorf("config: portal.listen_addr: %w", err)
		}
		p.BaseURL = "http://localhost:" + port
	}
	p.BaseURL = strings.TrimRight(p.BaseURL, "/")
	return nil
}

func (d *DatabaseConfig) validateAndNormalize() error {
	if d.Host == "" {
		return fmt.Errorf("config: database.host must be set")
	}
	if d.Port == 0 {
		return fmt.Errorf("config: database.port must be set")
	}
	if d.User == "" {
		return fmt.Errorf("config: database.user must be set")
	}
	if d.Password == "" {
		return fmt.Errorf("config: database.password must be set")
	}
	if d.Name == "" {
		return fmt.Errorf("config: database.name must be set")
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}

	lifetime, err := parseDurationAllowEmpty(d.ConnMaxLifetimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_lifetime: %w", err)
	}
	d.ConnMaxLifetime = lifetime

	idleTime, err := parseDurationAllowEmpty(d.ConnMaxIdleTimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_idle_time: %w", err)
	}
	d.ConnMaxIdleTime = idleTime

	return nil
}

func (s *SeedCaseConfig) validateAndNormalize() error {
	if strings.TrimSpace(s.CandidateName) == "" {
		return fmt.Errorf("candidate_name must be set")
	}
	if strings.TrimSpace(s.Token) == "" {
		return fmt.Errorf("token must be set")
	}

	start, err := parseDateAllowEmpty(s.StartDateRaw)
	if err != nil {
		return fmt.Errorf("start_date: %w", err)
	}
	s.StartDate = start

	probation, err := parseDateAllowEmpty(s.ProbationEndDateRaw)
	if err != nil {
		return fmt.Errorf("probation_end_date: %w", err)
	}
	s.ProbationEndDate = probation

	return nil
}

func (s *SeedEmployeeConfig) validateAndNormalize() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("name must be set")
	}

	start, err := parseDateAllowEmpty(s.StartDateRaw)
	if err != nil {
		return fmt.Errorf("start_date: %w", err)
	}
	s.StartDate = start

	return nil
}

func parseDurationAllowEmpty(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	return d, nil
}

func parseDateAllowEmpty(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, raw)
}

// DSN は pgx 用の接続文字列を返します。
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}
