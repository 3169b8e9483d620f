package connector

import (
	"io"
	"net/http"
)

// ReadBody lê o corpo da resposta por completo
func ReadBody(resp *http.Response) ([]byte, error) {
	return io.ReadAll(resp.Body)
}
