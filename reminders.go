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

package lorrybook

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/lorrybook/lorrybook/internal/notification"
	"github.com/lorrybook/lorrybook/model"
)

// PaymentReminder is the webhook payload sent for a settlement whose ledger
// has been waiting on a review.
type PaymentReminder struct {
	SettlementID string          `json:"settlement_id"`
	OwnerAID     string          `json:"owner_a_id"`
	OwnerBID     string          `json:"owner_b_id"`
	Status       string          `json:"status"`
	PendingCount int             `json:"pending_count"`
	Payments     []model.Payment `json:"pending_payments"`
}

// ProcessReminderSweep handles one TaskReminderSweep task: find settlements
// with payments pending past the cutoff and push a reminder webhook per
// settlement.
func (l *Lorrybook) ProcessReminderSweep(ctx context.Context, task *asynq.Task) error {
	var payload ReminderSweepPayload
	if len(task.Payload()) > 0 {
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return err
		}
	}
	if payload.OlderThan.IsZero() {
		payload.OlderThan = time.Now().Add(-24 * time.Hour)
	}

	settlements, err := l.datasource.GetSettlementsWithPendingPayments(ctx, payload.OlderThan)
	if err != nil {
		notification.NotifyError(err)
		return err
	}

	for _, settlement := range settlements {
		full, err := l.datasource.GetSettlement(ctx, settlement.SettlementID)
		if err != nil {
			logrus.Errorf("reminder sweep: fetch %s: %v", settlement.SettlementID, err)
			continue
		}
		reminder := PaymentReminder{
			SettlementID: full.SettlementID,
			OwnerAID:     full.OwnerAID,
			OwnerBID:     full.OwnerBID,
			Status:       full.Status,
		}
		for _, payment := range full.Payments {
			if payment.Status == model.PaymentPending && payment.CreatedAt.Before(payload.OlderThan) {
				reminder.Payments = append(reminder.Payments, payment)
			}
		}
		reminder.PendingCount = len(reminder.Payments)
		if reminder.PendingCount == 0 {
			continue
		}
		if err := notification.PushWebhook("settlement.payment.reminder", reminder); err != nil {
			logrus.Errorf("reminder sweep: webhook for %s: %v", full.SettlementID, err)
		}
	}

	logrus.Infof("reminder sweep done: %d settlements checked", len(settlements))
	return nil
}

// EnqueueReminderSweep schedules an immediate sweep for payments pending
// longer than 24 hours. The scheduler calls this on its cron tick.
func (l *Lorrybook) EnqueueReminderSweep() error {
	return l.queue.queueReminderSweep(time.Now().Add(-24 * time.Hour))
}
