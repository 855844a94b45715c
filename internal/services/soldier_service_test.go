package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSoldierService_Create(t *testing.T) {
	db := setupTestDB(t)
	service := NewSoldierService(db)

	soldier, err := service.Create(SoldierInput{
		ServiceNumber: " S100001 ",
		FullName:      "John Doe",
		Rank:          "SGT",
		Unit:          "1st Battalion",
	})
	require.NoError(t, err)
	assert.Equal(t, "S100001", soldier.ServiceNumber)
	assert.Equal(t, "John Doe", soldier.FullName)
	assert.True(t, soldier.Active)
	assert.NotEmpty(t, soldier.UUID)

	// Service numbers are unique
	_, err = service.Create(SoldierInput{ServiceNumber: "S100001", FullName: "Someone Else"})
	assert.ErrorIs(t, err, ErrSoldierExists)
}

func TestSoldierService_Update(t *testing.T) {
	db := setupTestDB(t)
	service := NewSoldierService(db)

	soldier, err := service.Create(SoldierInput{ServiceNumber: "S100001", FullName: "John Doe", Rank: "SGT", Unit: "1st"})
	require.NoError(t, err)
	other, err := service.Create(SoldierInput{ServiceNumber: "S100002", FullName: "Jane Roe"})
	require.NoError(t, err)

	updated, err := service.Update(soldier.ID, SoldierInput{
		ServiceNumber: "S100001",
		FullName:      "John A. Doe",
		Rank:          "SSG",
		Unit:          "2nd Battalion",
	}, true)
	require.NoError(t, err)
	assert.Equal(t, "John A. Doe", updated.FullName)
	assert.Equal(t, "SSG", updated.Rank)

	// Cannot claim another soldier's service number
	_, err = service.Update(other.ID, SoldierInput{ServiceNumber: "S100001", FullName: "Jane Roe"}, true)
	assert.ErrorIs(t, err, ErrSoldierExists)

	_, err = service.Update(9999, SoldierInput{FullName: "Ghost"}, true)
	assert.ErrorIs(t, err, ErrSoldierNotFound)
}

func TestSoldierService_Deactivate(t *testing.T) {
	db := setupTestDB(t)
	service := NewSoldierService(db)

	soldier, err := service.Create(SoldierInput{ServiceNumber: "S100001", FullName: "John Doe"})
	require.NoError(t, err)

	require.NoError(t, service.Deactivate(soldier.ID))

	got, err := service.GetByID(soldier.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	// Record survives deactivation
	all, err := service.List(false, "")
	require.NoError(t, err)
	assert.Len(t, all, 1)

	active, err := service.List(true, "")
	require.NoError(t, err)
	assert.Empty(t, active)

	assert.ErrorIs(t, service.Deactivate(9999), ErrSoldierNotFound)
}

func TestSoldierService_List(t *testing.T) {
	db := setupTestDB(t)
	service := NewSoldierService(db)

	_, err := service.Create(SoldierInput{ServiceNumber: "S100001", FullName: "John Doe"})
	require.NoError(t, err)
	_, err = service.Create(SoldierInput{ServiceNumber: "S200002", FullName: "Jane Roe"})
	require.NoError(t, err)

	all, err := service.List(false, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byName, err := service.List(false, "jane")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Jane Roe", byName[0].FullName)

	byNumber, err := service.List(false, "S1000")
	require.NoError(t, err)
	require.Len(t, byNumber, 1)
	assert.Equal(t, "John Doe", byNumber[0].FullName)
}
