package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrStoreLocked indica que otro escritor tiene el almacenamiento tomado.
	ErrStoreLocked = errors.New("record store locked by another writer")
	// ErrStoreUnavailable indica que el medio de persistencia no se puede abrir o escribir.
	ErrStoreUnavailable = errors.New("record store unavailable")
)

// ValidationError agrupa errores por campo de una encuesta rechazada.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add registra un mensaje para un campo; conserva el primero si ya existe.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; ok {
		return
	}
	e.Fields[field] = msg
}

// HasErrors indica si se registro al menos un campo invalido.
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// StorageError envuelve fallas del medio de persistencia.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	if e.Err == nil {
		return "storage " + e.Op
	}
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// NewStorageError construye un StorageError para la operacion dada.
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

// PartialReadError describe una fila ilegible durante un escaneo. No es fatal.
type PartialReadError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

func (e PartialReadError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}
