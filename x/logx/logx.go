// Package logx holds the process-wide logging configuration. Loggers are
// tagged with the component that emits them so output can be filtered per
// subsystem. Host builds log through slog; TinyGo builds print plain lines
// with println so neither log/slog nor os is linked into firmware.
package logx

type Component string

const (
	HAL      Component = "hal"
	Platform Component = "platform"
	Sim      Component = "sim"
	CLI      Component = "halsim"
)
