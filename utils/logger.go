package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

var (
	InfoLogger  = log.New(os.Stdout, "INFO: ", log.Ldate|log.Ltime)
	ErrorLogger = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime)
	DebugLogger = log.New(io.Discard, "DEBUG: ", log.Ldate|log.Ltime)
)

// InitLogger настраивает логгеры. Если dir пустой, логи пишутся в stdout/stderr,
// иначе в файлы info.log, error.log и debug.log внутри dir.
func InitLogger(dir string) error {
	if dir == "" {
		InfoLogger.SetOutput(os.Stdout)
		ErrorLogger.SetOutput(os.Stderr)
		DebugLogger.SetOutput(io.Discard)
		return nil
	}

	// Создаем директорию для логов, если она не существует
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	infoFile, err := openLogFile(dir, "info.log")
	if err != nil {
		return err
	}
	errorFile, err := openLogFile(dir, "error.log")
	if err != nil {
		return err
	}
	debugFile, err := openLogFile(dir, "debug.log")
	if err != nil {
		return err
	}

	InfoLogger.SetOutput(infoFile)
	ErrorLogger.SetOutput(errorFile)
	DebugLogger.SetOutput(debugFile)
	return nil
}

func openLogFile(dir, name string) (*os.File, error) {
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	return f, nil
}

// Writer возвращает приемник информационного лога, например для логгера gorm
func Writer() io.Writer {
	return InfoLogger.Writer()
}

// LogInfo логирует информационное сообщение
func LogInfo(format string, v ...interface{}) {
	InfoLogger.Printf("%s - %s", caller(), fmt.Sprintf(format, v...))
}

// LogError логирует сообщение об ошибке
func LogError(format string, v ...interface{}) {
	ErrorLogger.Printf("%s - %s", caller(), fmt.Sprintf(format, v...))
}

// LogDebug логирует отладочное сообщение
func LogDebug(format string, v ...interface{}) {
	DebugLogger.Printf("%s - %s", caller(), fmt.Sprintf(format, v...))
}

// LogOperation логирует операцию с метриками
func LogOperation(operation string, startTime time.Time, err error) {
	duration := time.Since(startTime)
	if err != nil {
		ErrorLogger.Printf("%s - Operation %s failed after %v: %v", caller(), operation, duration, err)
	} else {
		InfoLogger.Printf("%s - Operation %s completed in %v", caller(), operation, duration)
	}
}

// caller возвращает file:line кода, вызвавшего функцию логирования
func caller() string {
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		return "???:0"
	}
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}
