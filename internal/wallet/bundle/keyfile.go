package bundle

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/chaincode/internal/common"
	"github.com/dmitrijs2005/chaincode/internal/filex"
	"github.com/dmitrijs2005/chaincode/internal/idgen"
	"github.com/dmitrijs2005/chaincode/internal/wallet/models"
)

// KeyFileSuffix ends every key file name.
const KeyFileSuffix = ".key.txt"

// KeyFileName returns <type>-<slug>.key.txt for a card.
func KeyFileName(typ, slug string) string {
	return filex.SanitizeName(typ) + "-" + slug + KeyFileSuffix
}

// ParseKeyFileName recovers the card type and the normalised keychain id from
// a key file name. The last three dash-separated groups form the slug; what
// precedes them is the type, which defaults to models.DefaultKeyType.
func ParseKeyFileName(name string) (typ, id string, err error) {
	base := strings.TrimSuffix(strings.TrimSpace(name), KeyFileSuffix)
	parts := strings.Split(base, "-")
	if len(parts) < 3 {
		return "", "", fmt.Errorf("%w: key file name %q has no slug", common.ErrFormat, name)
	}

	id = idgen.NormalizeID(strings.Join(parts[len(parts)-3:], ""))
	if id == "" {
		return "", "", fmt.Errorf("%w: key file name %q has no slug", common.ErrFormat, name)
	}

	typ = strings.Join(parts[:len(parts)-3], "-")
	if typ == "" {
		typ = models.DefaultKeyType
	}
	return typ, id, nil
}
