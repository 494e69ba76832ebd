/*
Copyright 2024 Lorrybook Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateAndVerify(t *testing.T) {
	tok, err := Generate("secret", "own_123", "Ravi Transports", "owner", time.Minute)
	assert.NoError(t, err)
	assert.NotEmpty(t, tok)

	claims, err := Verify("secret", tok)
	assert.NoError(t, err)
	assert.Equal(t, "own_123", claims.OwnerID)
	assert.Equal(t, "owner", claims.Role)
}

func TestVerifyWrongSecret(t *testing.T) {
	tok, err := Generate("secret", "own_123", "Ravi Transports", "owner", time.Minute)
	assert.NoError(t, err)

	_, err = Verify("other-secret", tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyExpired(t *testing.T) {
	tok, err := Generate("secret", "own_123", "Ravi Transports", "owner", -time.Minute)
	assert.NoError(t, err)

	_, err = Verify("secret", tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyGarbage(t *testing.T) {
	_, err := Verify("secret", "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
