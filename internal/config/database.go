package config

type DatabaseConfig struct {
	Path     string `env:"DATABASE_PATH" envDefault:"./data/databases/Chinook.db" validate:"required"`
	ReadOnly bool   `env:"DATABASE_READ_ONLY" envDefault:"true"`
	TopK     int    `env:"SQL_TOP_K" envDefault:"5" validate:"gt=0"`
}
