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

package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("LORRYBOOK_DATA_SOURCE_DNS", "postgres://localhost:5432/lorrybook")
	t.Setenv("LORRYBOOK_REDIS_DNS", "localhost:6379")
	t.Setenv("LORRYBOOK_AUTH_JWT_SECRET", "env-secret")
	t.Setenv("LORRYBOOK_SERVER_PORT", "7700")

	err := loadConfigFromFile("does-not-exist.json")
	assert.NoError(t, err)

	cnf, err := Fetch()
	assert.NoError(t, err)
	assert.Equal(t, "postgres://localhost:5432/lorrybook", cnf.DataSource.Dns)
	assert.Equal(t, "7700", cnf.Server.Port)
	assert.Equal(t, "env-secret", cnf.Auth.JwtSecret)
}

func TestDefaultsApplied(t *testing.T) {
	cnf := &Configuration{
		DataSource: DataSourceConfig{Dns: "postgres://localhost:5432/lorrybook"},
		Redis:      RedisConfig{Dns: "localhost:6379"},
		Auth:       AuthConfig{JwtSecret: "secret"},
	}

	err := cnf.validateAndAddDefaults()
	assert.NoError(t, err)
	assert.Equal(t, DEFAULT_PORT, cnf.Server.Port)
	assert.Equal(t, 24*60, cnf.Auth.TokenTTLMins)
	assert.Equal(t, 10, cnf.Settlement.CriticalTripCount)
	assert.Equal(t, "settlement_reminders", cnf.Queue.ReminderQueue)
	assert.Equal(t, "0 8 * * *", cnf.Queue.ReminderSchedule)
}

func TestMissingRequiredFields(t *testing.T) {
	cnf := &Configuration{}
	err := cnf.validateAndAddDefaults()
	assert.Error(t, err)

	cnf = &Configuration{DataSource: DataSourceConfig{Dns: "postgres://localhost"}}
	err = cnf.validateAndAddDefaults()
	assert.Error(t, err)
}

func TestLoadConfigFromFile(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "lorrybook*.json")
	assert.NoError(t, err)

	_, err = f.WriteString(`{
		"project_name": "lorrybook test",
		"data_source": {"dns": "postgres://file:5432/lorrybook"},
		"redis": {"dns": "redis:6379"},
		"auth": {"jwt_secret": "file-secret", "token_ttl_mins": 30},
		"settlement": {"critical_trip_count": 25}
	}`)
	assert.NoError(t, err)
	assert.NoError(t, f.Close())

	err = loadConfigFromFile(f.Name())
	assert.NoError(t, err)

	cnf, err := Fetch()
	assert.NoError(t, err)
	assert.Equal(t, "lorrybook test", cnf.ProjectName)
	assert.Equal(t, 30, cnf.Auth.TokenTTLMins)
	assert.Equal(t, 25, cnf.Settlement.CriticalTripCount)
}
