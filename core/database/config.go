package database

// Config holds configuration for the mirror database connection.
type Config struct {
	// Driver is the database driver (sqlite, mysql).
	Driver string `mapstructure:"driver" default:"sqlite"`
	// Name is the database name. For sqlite it is the database file path.
	Name string `mapstructure:"name" default:"cases.db"`
	// Host is the database host (mysql only).
	Host string `mapstructure:"host" default:"localhost"`
	// Port is the database port (mysql only).
	Port int `mapstructure:"port" default:"3306"`
	// User is the database user (mysql only).
	User string `mapstructure:"user" default:"root"`
	// Password is the database password (mysql only).
	Password string `mapstructure:"password" default:""`
	// MaxOpenConns caps the connection pool size.
	MaxOpenConns int `mapstructure:"max_open_conns" default:"100"`
	// MaxIdleConns is the number of idle connections the pool keeps.
	MaxIdleConns int `mapstructure:"max_idle_conns" default:"10"`
	// ConnMaxLifetimeSeconds bounds how long a pooled connection is reused.
	ConnMaxLifetimeSeconds int `mapstructure:"conn_max_lifetime_seconds" default:"3600"`
	// PingTimeoutSeconds bounds connection setup and the initial ping.
	PingTimeoutSeconds int `mapstructure:"ping_timeout_seconds" default:"30"`
}
