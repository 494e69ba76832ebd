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
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"

	"github.com/sirupsen/logrus"
)

const (
	DEFAULT_PORT = "5001"
)

var ConfigStore atomic.Value

type ServerConfig struct {
	Port string `json:"port" envconfig:"LORRYBOOK_SERVER_PORT"`
}

type DataSourceConfig struct {
	Dns string `json:"dns" envconfig:"LORRYBOOK_DATA_SOURCE_DNS"`
}

type RedisConfig struct {
	Dns string `json:"dns" envconfig:"LORRYBOOK_REDIS_DNS"`
}

type AuthConfig struct {
	JwtSecret    string `json:"jwt_secret" envconfig:"LORRYBOOK_AUTH_JWT_SECRET"`
	TokenTTLMins int    `json:"token_ttl_mins" envconfig:"LORRYBOOK_AUTH_TOKEN_TTL_MINS"`
}

type SettlementConfig struct {
	// Number of unsettled trips above which a range suggestion is flagged critical.
	CriticalTripCount int `json:"critical_trip_count" envconfig:"LORRYBOOK_SETTLEMENT_CRITICAL_TRIP_COUNT"`
}

type QueueConfig struct {
	ReminderQueue string `json:"reminder_queue" envconfig:"LORRYBOOK_QUEUE_REMINDER"`
	// Cron spec for the daily pending-payment reminder sweep.
	ReminderSchedule string `json:"reminder_schedule" envconfig:"LORRYBOOK_QUEUE_REMINDER_SCHEDULE"`
}

type SlackWebhook struct {
	WebhookUrl string `json:"webhook_url"`
}

type Notification struct {
	Slack   SlackWebhook `json:"slack"`
	Webhook struct {
		Url     string            `json:"url"`
		Headers map[string]string `json:"headers"`
	} `json:"webhook"`
}

type Configuration struct {
	ProjectName  string           `json:"project_name" envconfig:"LORRYBOOK_PROJECT_NAME"`
	Server       ServerConfig     `json:"server"`
	DataSource   DataSourceConfig `json:"data_source"`
	Redis        RedisConfig      `json:"redis"`
	Auth         AuthConfig       `json:"auth"`
	Settlement   SettlementConfig `json:"settlement"`
	Queue        QueueConfig      `json:"queue"`
	Notification Notification     `json:"notification"`
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}

	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("lorrybook", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return err
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded from file. Create a json file called lorrybook.json with your config")
	}
	return c, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		log.Println("Warning: Project name is empty. Setting a default name.")
		cnf.ProjectName = "Lorrybook Server"
	}

	if cnf.DataSource.Dns == "" {
		log.Println("Error: Data source DNS is empty. It's a required field.")
		return errors.New("data source DNS is required")
	}

	if cnf.Redis.Dns == "" {
		log.Println("Error: Redis DNS is empty. It's a required field.")
		return errors.New("redis DNS is required")
	}

	if cnf.Auth.JwtSecret == "" {
		log.Println("Error: JWT secret is empty. It's a required field.")
		return errors.New("jwt secret is required")
	}

	// Trim white spaces from fields
	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	cnf.Server.Port = strings.TrimSpace(cnf.Server.Port)
	cnf.DataSource.Dns = strings.TrimSpace(cnf.DataSource.Dns)
	cnf.Redis.Dns = strings.TrimSpace(cnf.Redis.Dns)

	if cnf.Server.Port == "" {
		cnf.Server.Port = DEFAULT_PORT
		log.Printf("Warning: Port not specified in config. Setting default port: %s", DEFAULT_PORT)
	}

	if cnf.Auth.TokenTTLMins <= 0 {
		cnf.Auth.TokenTTLMins = 24 * 60
	}

	if cnf.Settlement.CriticalTripCount <= 0 {
		cnf.Settlement.CriticalTripCount = 10
	}

	if cnf.Queue.ReminderQueue == "" {
		cnf.Queue.ReminderQueue = "settlement_reminders"
	}
	if cnf.Queue.ReminderSchedule == "" {
		cnf.Queue.ReminderSchedule = "0 8 * * *"
	}

	return nil
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	if mockConfig.Auth.JwtSecret == "" {
		mockConfig.Auth.JwtSecret = "test-secret"
	}
	if mockConfig.Auth.TokenTTLMins <= 0 {
		mockConfig.Auth.TokenTTLMins = 60
	}
	if mockConfig.Settlement.CriticalTripCount <= 0 {
		mockConfig.Settlement.CriticalTripCount = 10
	}
	ConfigStore.Store(mockConfig)
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
