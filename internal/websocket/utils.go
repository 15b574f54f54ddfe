// internal/websocket/utils.go
package websocket

import (
	"encoding/json"
	"fmt"
)

// DecodePayload converts the loosely typed Data of a message into target.
func DecodePayload(data interface{}, target interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}
