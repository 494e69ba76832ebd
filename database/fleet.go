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

package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/lorrybook/lorrybook/internal/apierror"
	"github.com/lorrybook/lorrybook/model"
)

func (d Datasource) CreateLorry(ctx context.Context, l *model.Lorry) (*model.Lorry, error) {
	l.LorryID = model.GenerateUUIDWithSuffix("lry")
	l.Active = true
	l.CreatedAt = time.Now()

	_, err := d.Conn.ExecContext(ctx, `
		INSERT INTO lorrybook.lorries (lorry_id, owner_id, registration_number, model, capacity, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, l.LorryID, l.OwnerID, l.RegistrationNumber, l.Model, l.Capacity, l.Active, l.CreatedAt)

	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok {
			switch pqErr.Code.Name() {
			case "unique_violation":
				return nil, apierror.NewAPIError(apierror.ErrConflict, "A lorry with this registration already exists", err)
			case "foreign_key_violation":
				return nil, apierror.NewAPIError(apierror.ErrNotFound, "Owner does not exist", err)
			}
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create lorry", err)
	}

	return l, nil
}

func (d Datasource) GetLorry(ctx context.Context, ownerID, lorryID string) (*model.Lorry, error) {
	l := model.Lorry{}
	row := d.Conn.QueryRowContext(ctx, `
		SELECT id, lorry_id, owner_id, registration_number, model, capacity, active, created_at
		FROM lorrybook.lorries
		WHERE lorry_id = $1 AND owner_id = $2
	`, lorryID, ownerID)

	err := row.Scan(&l.ID, &l.LorryID, &l.OwnerID, &l.RegistrationNumber, &l.Model, &l.Capacity, &l.Active, &l.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, "Lorry not found", err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve lorry", err)
	}

	return &l, nil
}

func (d Datasource) ListLorries(ctx context.Context, ownerID string) ([]*model.Lorry, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT id, lorry_id, owner_id, registration_number, model, capacity, active, created_at
		FROM lorrybook.lorries
		WHERE owner_id = $1 AND active = TRUE
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve lorries", err)
	}
	defer rows.Close()

	lorries := []*model.Lorry{}
	for rows.Next() {
		l := model.Lorry{}
		err = rows.Scan(&l.ID, &l.LorryID, &l.OwnerID, &l.RegistrationNumber, &l.Model, &l.Capacity, &l.Active, &l.CreatedAt)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan lorry data", err)
		}
		lorries = append(lorries, &l)
	}
	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over lorries", err)
	}

	return lorries, nil
}

func (d Datasource) UpdateLorry(ctx context.Context, l *model.Lorry) error {
	return d.ownerScopedExec(ctx, `
		UPDATE lorrybook.lorries
		SET registration_number = $3, model = $4, capacity = $5
		WHERE lorry_id = $1 AND owner_id = $2
	`, "Lorry not found", l.LorryID, l.OwnerID, l.RegistrationNumber, l.Model, l.Capacity)
}

func (d Datasource) DeactivateLorry(ctx context.Context, ownerID, lorryID string) error {
	return d.ownerScopedExec(ctx, `
		UPDATE lorrybook.lorries SET active = FALSE WHERE lorry_id = $1 AND owner_id = $2
	`, "Lorry not found", lorryID, ownerID)
}

func (d Datasource) CreateDriver(ctx context.Context, dr *model.Driver) (*model.Driver, error) {
	dr.DriverID = model.GenerateUUIDWithSuffix("drv")
	dr.Active = true
	dr.CreatedAt = time.Now()

	_, err := d.Conn.ExecContext(ctx, `
		INSERT INTO lorrybook.drivers (driver_id, owner_id, name, phone, license_number, monthly_salary, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, dr.DriverID, dr.OwnerID, dr.Name, dr.Phone, dr.LicenseNumber, dr.MonthlySalary, dr.Active, dr.CreatedAt)

	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok && pqErr.Code.Name() == "foreign_key_violation" {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, "Owner does not exist", err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create driver", err)
	}

	return dr, nil
}

func (d Datasource) GetDriver(ctx context.Context, ownerID, driverID string) (*model.Driver, error) {
	dr := model.Driver{}
	row := d.Conn.QueryRowContext(ctx, `
		SELECT id, driver_id, owner_id, name, phone, license_number, monthly_salary, active, created_at
		FROM lorrybook.drivers
		WHERE driver_id = $1 AND owner_id = $2
	`, driverID, ownerID)

	err := row.Scan(&dr.ID, &dr.DriverID, &dr.OwnerID, &dr.Name, &dr.Phone, &dr.LicenseNumber, &dr.MonthlySalary, &dr.Active, &dr.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, "Driver not found", err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve driver", err)
	}

	return &dr, nil
}

func (d Datasource) ListDrivers(ctx context.Context, ownerID string) ([]*model.Driver, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT id, driver_id, owner_id, name, phone, license_number, monthly_salary, active, created_at
		FROM lorrybook.drivers
		WHERE owner_id = $1 AND active = TRUE
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve drivers", err)
	}
	defer rows.Close()

	drivers := []*model.Driver{}
	for rows.Next() {
		dr := model.Driver{}
		err = rows.Scan(&dr.ID, &dr.DriverID, &dr.OwnerID, &dr.Name, &dr.Phone, &dr.LicenseNumber, &dr.MonthlySalary, &dr.Active, &dr.CreatedAt)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan driver data", err)
		}
		drivers = append(drivers, &dr)
	}
	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over drivers", err)
	}

	return drivers, nil
}

func (d Datasource) UpdateDriver(ctx context.Context, dr *model.Driver) error {
	return d.ownerScopedExec(ctx, `
		UPDATE lorrybook.drivers
		SET name = $3, phone = $4, license_number = $5, monthly_salary = $6
		WHERE driver_id = $1 AND owner_id = $2
	`, "Driver not found", dr.DriverID, dr.OwnerID, dr.Name, dr.Phone, dr.LicenseNumber, dr.MonthlySalary)
}

func (d Datasource) DeactivateDriver(ctx context.Context, ownerID, driverID string) error {
	return d.ownerScopedExec(ctx, `
		UPDATE lorrybook.drivers SET active = FALSE WHERE driver_id = $1 AND owner_id = $2
	`, "Driver not found", driverID, ownerID)
}

func (d Datasource) CreateCustomer(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	c.CustomerID = model.GenerateUUIDWithSuffix("cst")
	c.Active = true
	c.CreatedAt = time.Now()

	_, err := d.Conn.ExecContext(ctx, `
		INSERT INTO lorrybook.customers (customer_id, owner_id, name, phone, address, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, c.CustomerID, c.OwnerID, c.Name, c.Phone, c.Address, c.Active, c.CreatedAt)

	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok && pqErr.Code.Name() == "foreign_key_violation" {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, "Owner does not exist", err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create customer", err)
	}

	return c, nil
}

func (d Datasource) GetCustomer(ctx context.Context, ownerID, customerID string) (*model.Customer, error) {
	c := model.Customer{}
	row := d.Conn.QueryRowContext(ctx, `
		SELECT id, customer_id, owner_id, name, phone, address, active, created_at
		FROM lorrybook.customers
		WHERE customer_id = $1 AND owner_id = $2
	`, customerID, ownerID)

	err := row.Scan(&c.ID, &c.CustomerID, &c.OwnerID, &c.Name, &c.Phone, &c.Address, &c.Active, &c.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, "Customer not found", err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve customer", err)
	}

	return &c, nil
}

func (d Datasource) ListCustomers(ctx context.Context, ownerID string) ([]*model.Customer, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT id, customer_id, owner_id, name, phone, address, active, created_at
		FROM lorrybook.customers
		WHERE owner_id = $1 AND active = TRUE
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve customers", err)
	}
	defer rows.Close()

	customers := []*model.Customer{}
	for rows.Next() {
		c := model.Customer{}
		err = rows.Scan(&c.ID, &c.CustomerID, &c.OwnerID, &c.Name, &c.Phone, &c.Address, &c.Active, &c.CreatedAt)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan customer data", err)
		}
		customers = append(customers, &c)
	}
	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over customers", err)
	}

	return customers, nil
}

func (d Datasource) UpdateCustomer(ctx context.Context, c *model.Customer) error {
	return d.ownerScopedExec(ctx, `
		UPDATE lorrybook.customers
		SET name = $3, phone = $4, address = $5
		WHERE customer_id = $1 AND owner_id = $2
	`, "Customer not found", c.CustomerID, c.OwnerID, c.Name, c.Phone, c.Address)
}

func (d Datasource) DeactivateCustomer(ctx context.Context, ownerID, customerID string) error {
	return d.ownerScopedExec(ctx, `
		UPDATE lorrybook.customers SET active = FALSE WHERE customer_id = $1 AND owner_id = $2
	`, "Customer not found", customerID, ownerID)
}

// ownerScopedExec runs an owner-scoped UPDATE and maps a zero rowcount to a
// not-found error, so cross-tenant IDs behave like missing records.
func (d Datasource) ownerScopedExec(ctx context.Context, query, notFoundMsg string, args ...interface{}) error {
	result, err := d.Conn.ExecContext(ctx, query, args...)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Database error occurred", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Database error occurred", err)
	}
	if rows == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, notFoundMsg, nil)
	}
	return nil
}
