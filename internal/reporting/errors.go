package reporting

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidLookback = errors.New("lookbackDays deve estar entre 1 e 365")
	ErrCityNotAllowed  = errors.New("usuário não tem acesso a esta loja")
)

// SourceError indica que uma fonte de dados falhou e foi degradada no relatório
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("falha ao buscar %s: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}
