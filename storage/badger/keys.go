package badger

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/poiesic/clinrank/core"
)

// Key prefixes for different data types
const (
	profilePrefix          = "prorec"
	profileSpecialtyPrefix = "prospc"
)

// makeProfileKey generates a key for a profile by ID.
// IDs are encoded BigEndian so iteration order matches numeric order.
func makeProfileKey(id core.ID) []byte {
	prefix := profilePrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, []byte(prefix))
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeSpecialtyKey generates a composite key for the specialty index.
// Format: prefix:specialty:id
func makeSpecialtyKey(specialty string, id core.ID) []byte {
	prefix := fmt.Sprintf("%s:%s:", profileSpecialtyPrefix, normalizeSpecialty(specialty))
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, []byte(prefix))
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialSpecialtyKey generates a partial key for specialty queries.
// Format: prefix:specialty:
func makePartialSpecialtyKey(specialty string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", profileSpecialtyPrefix, normalizeSpecialty(specialty)))
}

// normalizeSpecialty lowercases and trims a specialty for index keys.
func normalizeSpecialty(specialty string) string {
	return strings.ToLower(strings.TrimSpace(specialty))
}
