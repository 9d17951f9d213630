// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package accountcmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/luxfi/msig/pkg/key"
	"github.com/luxfi/msig/pkg/validator"
)

// parseWeightedSigners turns "keyname=weight" pairs into the signer set,
// resolving each key name to its address.
func parseWeightedSigners(pairs []string) ([]validator.WeightedSigner, error) {
	signers := make([]validator.WeightedSigner, 0, len(pairs))
	for _, pair := range pairs {
		name, weightStr, found := strings.Cut(pair, "=")
		if !found {
			return nil, fmt.Errorf("invalid signer %q, expected keyname=weight", pair)
		}
		weight, err := strconv.ParseUint(weightStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid weight in %q: %w", pair, err)
		}
		k, err := key.LoadSoftKey(app.GetKeyPath(name))
		if err != nil {
			return nil, err
		}
		signers = append(signers, validator.WeightedSigner{Addr: k.Address(), Weight: weight})
	}
	return signers, nil
}
