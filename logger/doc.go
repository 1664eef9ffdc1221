// Package logger provides structured logging for restspec using zerolog.
//
// It supports JSON and console output, level configuration and
// component-scoped loggers. WithContext adds the active trace and span ids
// plus any request id stored with ContextWithRequestID.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("builder")
//	log.Debug("dispatch", logger.Fields("method", "GET", "uri", uri))
package logger
