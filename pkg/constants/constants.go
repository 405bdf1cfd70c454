package constants

import (
	"github.com/go-playground/validator/v10"
)

type ContextKey string

const (
	TxKey        ContextKey = "tx"
	PoolKey      ContextKey = "pool"
	LoggerKey    ContextKey = "logger"
	RequestStart ContextKey = "requestStart"
	ParamsKey    ContextKey = "params"
)

var Validate = validator.New(validator.WithRequiredStructEnabled())
