// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package bcrypt_test

import (
	"testing"

	"github.com/momeni/car-rental/pkg/adapter/hash/bcrypt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xbcrypt "golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	h, err := bcrypt.New(xbcrypt.MinCost)
	require.NoError(t, err)
	s, err := h.Hash("pass-word")
	require.NoError(t, err)

	ok, err := h.Verify(s, "pass-word")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify(s, "other")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = h.Verify("not-a-bcrypt-hash", "pass-word")
	assert.Error(t, err)
}

func TestNewRejectsBadCost(t *testing.T) {
	_, err := bcrypt.New(xbcrypt.MaxCost + 1)
	assert.Error(t, err)
	_, err = bcrypt.New(1)
	assert.Error(t, err)
}
