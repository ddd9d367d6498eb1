package backend

import (
	"errors"
	"fmt"
	"slices"

	"moneyflow/internal/config"
)

// Types lists the supported blob stores in DATA_BACKEND order.
func Types() []BackendType {
	return []BackendType{MemoryBackend, SQLiteBackend, PostgresBackend, RedisBackend}
}

// FromAppConfig picks the backend settings out of the application config.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, errors.New("app config is nil")
	}

	backendType := BackendType(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %q (want one of %v)", appConfig.DataBackend, Types())
	}

	return Config{
		Type:         backendType,
		SQLiteDBPath: appConfig.SQLiteDBPath,
		PostgresURL:  appConfig.PostgresURL,
		RedisURL:     appConfig.RedisURL,
		KeyPrefix:    appConfig.StoreKeyPrefix,
		AMQPURL:      appConfig.AMQPURL,
		AMQPExchange: appConfig.AMQPExchange,
		AMQPQueue:    appConfig.AMQPQueue,
	}, nil
}

// Validate reports every missing setting the chosen store needs. AMQP is
// optional and only checked when a URL is given.
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %q", c.Type)
	}

	var errs []error
	required := func(value, what string) {
		if value == "" {
			errs = append(errs, fmt.Errorf("%s is required for the %s backend", what, c.Type))
		}
	}
	switch c.Type {
	case SQLiteBackend:
		required(c.SQLiteDBPath, "SQLite database path")
	case PostgresBackend:
		required(c.PostgresURL, "PostgreSQL URL")
	case RedisBackend:
		required(c.RedisURL, "Redis URL")
	}
	if c.AMQPURL != "" && (c.AMQPExchange == "" || c.AMQPQueue == "") {
		errs = append(errs, errors.New("AMQP exchange and queue are required when AMQP_URL is set"))
	}
	return errors.Join(errs...)
}

func (bt BackendType) IsValid() bool {
	return slices.Contains(Types(), bt)
}
