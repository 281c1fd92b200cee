package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"admon_backend/internals/constants"
	"admon_backend/internals/databases/dbtest"
	"admon_backend/internals/features/progress/avances/model"
)

func TestProgress(t *testing.T) {
	cases := []struct {
		total, done int
		pct         float64
		status      string
	}{
		{0, 0, 0, constants.ProgressInProgress},
		{4, 1, 25, constants.ProgressInProgress},
		{3, 3, 100, constants.ProgressCompleted},
		{7, 7, 100, constants.ProgressCompleted},
		{3, 2, 200.0 / 3, constants.ProgressInProgress},
	}
	for _, tc := range cases {
		pct, status := Progress(tc.total, tc.done)
		require.InDelta(t, tc.pct, pct, 1e-9)
		require.Equal(t, tc.status, status)
	}
}

func TestRecalculateAll_FixesStaleCounters(t *testing.T) {
	db := dbtest.Open(t)

	stale := model.AvanceModel{
		AvanceProjectName: "Portal", AvanceClientName: "Ana",
		AvancePercentage: 10, AvanceTotal: 9, AvanceCompleted: 1, AvanceStatus: constants.ProgressInProgress,
	}
	empty := model.AvanceModel{AvanceProjectName: "Vacío", AvanceClientName: "Beto", AvanceStatus: constants.ProgressCompleted}
	require.NoError(t, db.Create(&stale).Error)
	require.NoError(t, db.Create(&empty).Error)
	for i, done := range []bool{true, true} {
		require.NoError(t, db.Create(&model.AvanceFeatureModel{
			FeatureAvanceID: stale.AvanceID, FeatureName: "f", FeatureCompleted: done, FeatureOrder: i + 1,
		}).Error)
	}

	res, err := RecalculateAll(context.Background(), db)
	require.NoError(t, err)
	require.Equal(t, 2, res.Updated)
	require.Zero(t, res.Failed)

	var got model.AvanceModel
	require.NoError(t, db.First(&got, "id = ?", stale.AvanceID).Error)
	require.Equal(t, 2, got.AvanceTotal)
	require.Equal(t, 2, got.AvanceCompleted)
	require.InDelta(t, 100, got.AvancePercentage, 1e-9)
	require.Equal(t, constants.ProgressCompleted, got.AvanceStatus)

	require.NoError(t, db.First(&got, "id = ?", empty.AvanceID).Error)
	require.Zero(t, got.AvancePercentage)
	require.Equal(t, constants.ProgressInProgress, got.AvanceStatus)
}

func TestLoad_OrdersFeatures(t *testing.T) {
	db := dbtest.Open(t)
	av := model.AvanceModel{AvanceProjectName: "App", AvanceClientName: "Ana"}
	require.NoError(t, db.Create(&av).Error)
	for _, o := range []int{3, 1, 2} {
		require.NoError(t, db.Create(&model.AvanceFeatureModel{
			FeatureAvanceID: av.AvanceID, FeatureName: string(rune('a' + o)), FeatureOrder: o,
		}).Error)
	}

	got, err := Load(context.Background(), db, av.AvanceID)
	require.NoError(t, err)
	require.Len(t, got.Features, 3)
	for i, f := range got.Features {
		require.Equal(t, i+1, f.FeatureOrder)
	}

	_, err = Load(context.Background(), db, uuid.New())
	require.ErrorIs(t, err, ErrAvanceNotFound)
}
