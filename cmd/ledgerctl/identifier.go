package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/kvshepherd-labs/ledgerkeep/internal/ledger"
)

// parseIdentifier parses the CLI's "<uuid>.<version>" shorthand for
// ledger.Identifier, e.g. "96f76903-7b92-44d1-8e53-fc47a520684c.0".
func parseIdentifier(s string) (ledger.Identifier, error) {
	idx := strings.LastIndex(s, ".")
	if idx < 0 {
		return ledger.Identifier{}, fmt.Errorf("identifier %q must be <uuid>.<version>", s)
	}
	u, err := uuid.Parse(s[:idx])
	if err != nil {
		return ledger.Identifier{}, fmt.Errorf("identifier %q: %w", s, err)
	}
	version, err := strconv.ParseUint(s[idx+1:], 10, 64)
	if err != nil {
		return ledger.Identifier{}, fmt.Errorf("identifier %q: %w", s, err)
	}
	return ledger.Identifier{UUID: u, Version: version}, nil
}
