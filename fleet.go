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

	"github.com/lorrybook/lorrybook/internal/apierror"
	"github.com/lorrybook/lorrybook/model"
)

func (l *Lorrybook) CreateLorry(ctx context.Context, lorry *model.Lorry) (*model.Lorry, error) {
	if lorry.RegistrationNumber == "" {
		return nil, apierror.NewAPIError(apierror.ErrBadRequest, "Registration number is required", nil)
	}
	return l.datasource.CreateLorry(ctx, lorry)
}

func (l *Lorrybook) GetLorry(ctx context.Context, actingOwnerID, lorryID string) (*model.Lorry, error) {
	return l.datasource.GetLorry(ctx, actingOwnerID, lorryID)
}

func (l *Lorrybook) ListLorries(ctx context.Context, actingOwnerID string) ([]*model.Lorry, error) {
	return l.datasource.ListLorries(ctx, actingOwnerID)
}

func (l *Lorrybook) UpdateLorry(ctx context.Context, lorry *model.Lorry) (*model.Lorry, error) {
	if err := l.datasource.UpdateLorry(ctx, lorry); err != nil {
		return nil, err
	}
	return l.datasource.GetLorry(ctx, lorry.OwnerID, lorry.LorryID)
}

func (l *Lorrybook) DeactivateLorry(ctx context.Context, actingOwnerID, lorryID string) error {
	return l.datasource.DeactivateLorry(ctx, actingOwnerID, lorryID)
}

func (l *Lorrybook) CreateDriver(ctx context.Context, driver *model.Driver) (*model.Driver, error) {
	if driver.Name == "" {
		return nil, apierror.NewAPIError(apierror.ErrBadRequest, "Driver name is required", nil)
	}
	return l.datasource.CreateDriver(ctx, driver)
}

func (l *Lorrybook) GetDriver(ctx context.Context, actingOwnerID, driverID string) (*model.Driver, error) {
	return l.datasource.GetDriver(ctx, actingOwnerID, driverID)
}

func (l *Lorrybook) ListDrivers(ctx context.Context, actingOwnerID string) ([]*model.Driver, error) {
	return l.datasource.ListDrivers(ctx, actingOwnerID)
}

func (l *Lorrybook) UpdateDriver(ctx context.Context, driver *model.Driver) (*model.Driver, error) {
	if err := l.datasource.UpdateDriver(ctx, driver); err != nil {
		return nil, err
	}
	return l.datasource.GetDriver(ctx, driver.OwnerID, driver.DriverID)
}

func (l *Lorrybook) DeactivateDriver(ctx context.Context, actingOwnerID, driverID string) error {
	return l.datasource.DeactivateDriver(ctx, actingOwnerID, driverID)
}

func (l *Lorrybook) CreateCustomer(ctx context.Context, customer *model.Customer) (*model.Customer, error) {
	if customer.Name == "" {
		return nil, apierror.NewAPIError(apierror.ErrBadRequest, "Customer name is required", nil)
	}
	return l.datasource.CreateCustomer(ctx, customer)
}

func (l *Lorrybook) GetCustomer(ctx context.Context, actingOwnerID, customerID string) (*model.Customer, error) {
	return l.datasource.GetCustomer(ctx, actingOwnerID, customerID)
}

func (l *Lorrybook) ListCustomers(ctx context.Context, actingOwnerID string) ([]*model.Customer, error) {
	return l.datasource.ListCustomers(ctx, actingOwnerID)
}

func (l *Lorrybook) UpdateCustomer(ctx context.Context, customer *model.Customer) (*model.Customer, error) {
	if err := l.datasource.UpdateCustomer(ctx, customer); err != nil {
		return nil, err
	}
	return l.datasource.GetCustomer(ctx, customer.OwnerID, customer.CustomerID)
}

func (l *Lorrybook) DeactivateCustomer(ctx context.Context, actingOwnerID, customerID string) error {
	return l.datasource.DeactivateCustomer(ctx, actingOwnerID, customerID)
}
