package recording

import "errors"

// Erros de autorização e validação de registros comerciais
var (
	ErrUnauthenticated     = errors.New("usuário não autenticado")
	ErrForbidden           = errors.New("sem permissão para acessar registros")
	ErrRecordNotFound      = errors.New("registro não encontrado")
	ErrMissingRequiredData = errors.New("dados obrigatórios ausentes")
	ErrInvalidLineItems    = errors.New("itens do registro inválidos")
)
