package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/brewpos-api/internal/domain/entity"
	"github.com/sangkips/brewpos-api/internal/domain/enum"
	"github.com/sangkips/brewpos-api/internal/domain/repository"
	infraRepo "github.com/sangkips/brewpos-api/internal/infrastructure/repository"
	"github.com/sangkips/brewpos-api/pkg/pagination"
	"github.com/sangkips/brewpos-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestStaffService_CreateStaff(t *testing.T) {
	env := newTestEnv(t)

	staff, err := env.staff.CreateStaff(env.ctx, &CreateStaffInput{
		Name:     " Maya Manager ",
		Email:    "Maya@Test.local",
		Role:     enum.StaffRoleManager,
		Password: "manager-secret",
		PIN:      "1357",
	})
	require.NoError(t, err)
	assert.Equal(t, "Maya Manager", staff.Name)
	assert.Equal(t, "maya@test.local", staff.Email)
	assert.Equal(t, env.store.ID, staff.StoreID)
	assert.True(t, staff.Active)

	out, err := env.auth.LoginWithPIN(env.ctx, &PINLoginInput{StoreID: env.store.ID, PIN: "1357"})
	require.NoError(t, err)
	assert.Equal(t, staff.ID, out.Staff.ID)
}

func TestStaffService_CreateStaffValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.staff.CreateStaff(env.ctx, &CreateStaffInput{Email: "bad", Role: "owner", Password: "short", PIN: "12a4"})
	appErr := assertAppError(t, err, http.StatusUnprocessableEntity)
	assert.Len(t, appErr.Errors, 5)

	_, err = env.staff.CreateStaff(env.ctx, &CreateStaffInput{
		Name: "Dup", Email: "carl@test.local", Role: enum.StaffRoleCashier, Password: "password1",
	})
	assertAppError(t, err, http.StatusConflict)

	_, err = env.staff.CreateStaff(env.ctx, &CreateStaffInput{
		Name: "Same Pin", Email: "pin@test.local", Role: enum.StaffRoleCashier, Password: "password1", PIN: testCashierPIN,
	})
	assertAppError(t, err, http.StatusConflict)

	_, err = env.staff.CreateStaff(context.Background(), &CreateStaffInput{
		Name: "No Store", Email: "none@test.local", Role: enum.StaffRoleCashier, Password: "password1",
	})
	assertAppError(t, err, http.StatusBadRequest)
}

func TestStaffService_UpdateAndDeactivate(t *testing.T) {
	env := newTestEnv(t)

	role := enum.StaffRoleManager
	pin := "9753"
	staff, err := env.staff.UpdateStaff(env.ctx, env.cashier.StaffID, &UpdateStaffInput{Role: &role, PIN: &pin})
	require.NoError(t, err)
	assert.Equal(t, enum.StaffRoleManager, staff.Role)

	_, err = env.auth.LoginWithPIN(env.ctx, &PINLoginInput{StoreID: env.store.ID, PIN: testCashierPIN})
	assertAppError(t, err, http.StatusUnauthorized)

	_, err = env.staff.DeactivateStaff(env.ctx, env.admin, env.admin.StaffID)
	assertAppError(t, err, http.StatusBadRequest)

	staff, err = env.staff.DeactivateStaff(env.ctx, env.admin, env.cashier.StaffID)
	require.NoError(t, err)
	assert.False(t, staff.Active)

	list, err := env.staff.ListStaff(env.ctx, &repository.StaffFilterParams{
		Pagination: pagination.DefaultPagination(),
		ActiveOnly: true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Pagination.Total)
}

func TestStaffService_OtherStoreIsInvisible(t *testing.T) {
	env := newTestEnv(t)

	other := &entity.Store{Name: "Other", Slug: "other", Active: true}
	require.NoError(t, env.db.Create(other).Error)
	otherCtx := infraRepo.WithStore(context.Background(), other.ID)

	_, err := env.staff.GetStaff(otherCtx, env.cashier.StaffID)
	assertAppError(t, err, http.StatusNotFound)

	_, err = env.staff.GetStaff(env.ctx, uuid.New())
	assertAppError(t, err, http.StatusNotFound)
}

func createBarista(t *testing.T, env *testEnv) *entity.Staff {
	t.Helper()
	staff, err := env.staff.CreateStaff(env.ctx, &CreateStaffInput{
		Name:     "Maya Barista",
		Email:    "maya@test.local",
		Role:     enum.StaffRoleCashier,
		Password: "barista-secret",
		Personal: entity.PersonalInfo{
			Phone:            " +34 600 111 222 ",
			Address:          "4 Crema Lane",
			DateOfBirth:      "1994-04-12",
			NationalID:       "X1234567L",
			EmergencyContact: "Jon Barista +34 600 333 444",
		},
		Bank: entity.BankInfo{
			BankName:      "Caixa",
			AccountHolder: "Maya Barista",
			IBAN:          "es91 2100 0418 4502 0005 1332",
		},
		Grants: []string{"View-Reports", "view-reports", enum.PermSell},
	})
	require.NoError(t, err)
	return staff
}

func TestStaffService_PersonnelRecords(t *testing.T) {
	env := newTestEnv(t)

	created := createBarista(t, env)
	assert.Equal(t, "+34 600 111 222", created.Personal.Phone)
	assert.Equal(t, "ES9121000418450200051332", created.Bank.IBAN)
	assert.Equal(t, []string{enum.PermViewReports, enum.PermSell}, []string(created.Grants))

	stored, err := env.staff.GetStaff(env.ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "1994-04-12", stored.Personal.DateOfBirth)
	assert.Equal(t, "Caixa", stored.Bank.BankName)
	assert.Equal(t, []string{enum.PermSell, enum.PermTrackTime, enum.PermViewReports}, stored.Permissions())
	assert.True(t, stored.HasPermission(enum.PermViewReports))
	assert.False(t, stored.HasPermission(enum.PermManageStaff))

	out, err := env.auth.Login(env.ctx, &LoginInput{Email: "maya@test.local", Password: "barista-secret"})
	require.NoError(t, err)
	claims, err := utils.NewJWTManager("test-secret", time.Hour).ValidateAccessToken(out.AccessToken)
	require.NoError(t, err)
	assert.Contains(t, claims.Permissions, enum.PermViewReports)

	actor := Actor{StaffID: created.ID, Role: created.Role, Permissions: claims.Permissions}
	assert.True(t, actor.Can(enum.PermViewReports))
	assert.False(t, Actor{Role: enum.StaffRoleCashier}.Can(enum.PermViewReports))

	none := []string{}
	personal := entity.PersonalInfo{Phone: "555"}
	updated, err := env.staff.UpdateStaff(env.ctx, created.ID, &UpdateStaffInput{Grants: &none, Personal: &personal})
	require.NoError(t, err)
	assert.Empty(t, updated.Grants)
	assert.Equal(t, "555", updated.Personal.Phone)
	assert.Empty(t, updated.Personal.Address)
	assert.Equal(t, "Caixa", updated.Bank.BankName)
	assert.False(t, updated.HasPermission(enum.PermViewReports))
}

func TestStaffService_PersonnelValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.staff.CreateStaff(env.ctx, &CreateStaffInput{
		Name:     "Bad Records",
		Email:    "bad@test.local",
		Role:     enum.StaffRoleCashier,
		Password: "password1",
		Personal: entity.PersonalInfo{DateOfBirth: "12/04/1994"},
		Bank:     entity.BankInfo{IBAN: "not-an-iban"},
		Grants:   []string{"launch-rockets"},
	})
	appErr := assertAppError(t, err, http.StatusUnprocessableEntity)
	fields := make([]string, 0, len(appErr.Errors))
	for _, fe := range appErr.Errors {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"personal_info.date_of_birth", "bank_info.iban", "permission_grants"}, fields)

	bank := entity.BankInfo{IBAN: "DE00"}
	_, err = env.staff.UpdateStaff(env.ctx, env.cashier.StaffID, &UpdateStaffInput{Bank: &bank})
	assertAppError(t, err, http.StatusUnprocessableEntity)

	stored, err := env.staff.GetStaff(env.ctx, env.cashier.StaffID)
	require.NoError(t, err)
	assert.Empty(t, stored.Bank.IBAN)
}

func TestStaffService_ExportStaff(t *testing.T) {
	env := newTestEnv(t)
	barista := createBarista(t, env)

	var buf bytes.Buffer
	require.NoError(t, env.staff.ExportStaff(env.ctx, &repository.StaffFilterParams{}, ExportCSV, &buf))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, staffColumns, rows[0])
	assert.Equal(t, "Alba Admin", rows[1][1])
	assert.Equal(t, "Carl Cashier", rows[2][1])

	row := rows[3]
	assert.Equal(t, barista.ID.String(), row[0])
	assert.Equal(t, "cashier", row[3])
	assert.Equal(t, "true", row[4])
	assert.Equal(t, "1994-04-12", row[7])
	assert.Equal(t, "ES9121000418450200051332", row[12])
	assert.Equal(t, "sell;track-time;view-reports", row[13])

	buf.Reset()
	require.NoError(t, env.staff.ExportStaff(env.ctx, &repository.StaffFilterParams{
		Role:       enum.StaffRoleAdmin,
		Pagination: &pagination.PaginationParams{Page: 1, PerPage: 1},
	}, ExportXLSX, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	sheet, err := f.GetRows("Staff")
	require.NoError(t, err)
	require.Len(t, sheet, 2)
	assert.Equal(t, "admin@test.local", sheet[1][2])

	err = env.staff.ExportStaff(env.ctx, &repository.StaffFilterParams{}, "pdf", &buf)
	assertAppError(t, err, http.StatusUnprocessableEntity)

	err = env.staff.ExportStaff(context.Background(), &repository.StaffFilterParams{}, ExportCSV, &buf)
	assertAppError(t, err, http.StatusBadRequest)
}
