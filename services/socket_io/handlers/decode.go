package handlers

import (
	"encoding/json"
	"errors"
	"fmt"

	"Morris/services/session"

	"github.com/gin-gonic/gin"
)

var ErrInvalidPayload = errors.New("invalid payload")

// decodeArgs reads the first event argument into dst. Events sent without a
// payload leave dst untouched.
func decodeArgs(args []interface{}, dst interface{}) error {
	if len(args) == 0 || args[0] == nil {
		return nil
	}
	raw, err := json.Marshal(args[0])
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}

func emitInvalidPayload(conn session.Conn) {
	conn.Emit(session.EventError, gin.H{"message": "Invalid payload"})
}
