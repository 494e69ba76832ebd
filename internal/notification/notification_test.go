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

package notification

import (
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"

	"github.com/lorrybook/lorrybook/config"
)

func mockWebhookConfig(url string) {
	cnf := &config.Configuration{
		DataSource: config.DataSourceConfig{Dns: "postgres://localhost"},
		Redis:      config.RedisConfig{Dns: "localhost:6379"},
	}
	cnf.Notification.Webhook.Url = url
	cnf.Notification.Webhook.Headers = map[string]string{"X-Lorrybook-Event": "settlement"}
	config.MockConfig(cnf)
}

func TestPushWebhookSuccess(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	mockWebhookConfig("http://webhook.local/events")
	httpmock.RegisterResponder("POST", "http://webhook.local/events",
		httpmock.NewJsonResponderOrPanic(200, map[string]interface{}{"ok": true}))

	err := PushWebhook("settlement.created", map[string]string{"settlement_id": "stl_1"})
	assert.NoError(t, err)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestPushWebhookRetriesOnServerError(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	mockWebhookConfig("http://webhook.local/events")

	calls := 0
	httpmock.RegisterResponder("POST", "http://webhook.local/events",
		func(req *http.Request) (*http.Response, error) {
			calls++
			if calls < 3 {
				return httpmock.NewJsonResponse(500, map[string]interface{}{"ok": false})
			}
			return httpmock.NewJsonResponse(200, map[string]interface{}{"ok": true})
		})

	err := PushWebhook("payment.approved", map[string]string{"payment_id": "pay_1"})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestPushWebhookNoURLConfigured(t *testing.T) {
	mockWebhookConfig("")

	err := PushWebhook("settlement.created", nil)
	assert.NoError(t, err)
}
