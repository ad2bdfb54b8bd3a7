package lock

// Config holds configuration for the redis-backed cinema lock.
type Config struct {
	// Enabled turns on cross-process locking. When false a no-op locker is used.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Addr is the redis host:port.
	Addr string `mapstructure:"addr" default:"localhost:6379"`
	// Password is the redis password.
	Password string `mapstructure:"password" default:""`
	// DB is the redis logical database.
	DB int `mapstructure:"db" default:"0"`
}
