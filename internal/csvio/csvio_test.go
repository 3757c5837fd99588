package csvio

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/Tusker13-04/interstellar/internal/domain/stowage"
	"github.com/Tusker13-04/interstellar/internal/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadItems(t *testing.T) {
	in := strings.NewReader(
		"itemId,name,width,depth,height,mass,priority,preferredZone,expiryDate,usageLimit\n" +
			"1,Food Ration,0.3,0.2,0.1,2.5,80,Crew Quarters,2026-12-01,30\n" +
			"crate-27,Oxygen Filter,0.4,0.4,0.5,6,95,Airlock,,\n")

	items, err := ReadItems(in)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, int64(1), items[0].ID)
	assert.Equal(t, "Food Ration", items[0].Name)
	assert.Equal(t, geometry.Dims{W: 0.3, D: 0.2, H: 0.1}, items[0].Dims)
	assert.Equal(t, 80, items[0].Priority)
	require.NotNil(t, items[0].Expiry)
	assert.Equal(t, time.December, items[0].Expiry.Month())
	require.NotNil(t, items[0].UsageLimit)
	assert.Equal(t, 30, *items[0].UsageLimit)

	assert.Equal(t, int64(27), items[1].ID, "string id normalized to trailing digits")
	assert.Nil(t, items[1].Expiry)
	assert.Nil(t, items[1].UsageLimit)
}

func TestReadItemsRejectsBadRows(t *testing.T) {
	header := "itemId,name,width,depth,height,mass,priority,preferredZone\n"

	_, err := ReadItems(strings.NewReader(header + "1,thing,0,1,1,1,50,Z\n"))
	assert.ErrorIs(t, err, stowage.ErrInvalidInput, "zero width")

	_, err = ReadItems(strings.NewReader(header + "1,thing,1,1,1,1,120,Z\n"))
	assert.ErrorIs(t, err, stowage.ErrInvalidInput, "priority out of range")

	_, err = ReadItems(strings.NewReader(header + "widget,thing,1,1,1,1,50,Z\n"))
	assert.ErrorIs(t, err, stowage.ErrBadItemID)

	_, err = ReadItems(strings.NewReader("wrong,header\n"))
	assert.ErrorIs(t, err, ErrBadHeader)
}

func TestItemsRoundTrip(t *testing.T) {
	limit := 5
	exp := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	items := []stowage.Item{
		{ID: 3, Name: "Med Kit", Dims: geometry.Dims{W: 1, D: 2, H: 0.5}, Mass: 1.2, Priority: 99, PreferredZone: "Medical Bay", Expiry: &exp, UsageLimit: &limit},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteItems(&buf, items))

	got, err := ReadItems(&buf)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, items[0].Name, got[0].Name)
	assert.Equal(t, items[0].Dims, got[0].Dims)
	assert.True(t, got[0].Expiry.Equal(exp))
	assert.Equal(t, limit, *got[0].UsageLimit)
}

func TestReadContainers(t *testing.T) {
	in := strings.NewReader(
		"containerId,zone,width,depth,height\n" +
			"contA,Crew Quarters,100,85,200\n")

	cs, err := ReadContainers(in)
	require.NoError(t, err)
	require.Len(t, cs, 1)
	assert.Equal(t, "contA", cs[0].ID)
	assert.Equal(t, geometry.Dims{W: 100, D: 85, H: 200}, cs[0].Dims)

	_, err = ReadContainers(strings.NewReader("containerId,zone,width,depth,height\ncontB,Z,0,1,1\n"))
	assert.ErrorIs(t, err, stowage.ErrInvalidInput)
}

func TestArrangementRoundTrip(t *testing.T) {
	w := stowage.NewWorld()
	w.Containers["contA"] = stowage.Container{ID: "contA", Zone: "Z", Dims: geometry.Dims{W: 10, D: 10, H: 10}}
	w.Placements[2] = stowage.Placement{
		ItemID: 2, ContainerID: "contA", Orientation: geometry.OrientWDH,
		MinCorner: geometry.Vec{X: 1, Y: 0, Z: 2}, EffectiveDims: geometry.Dims{W: 2, D: 3, H: 4},
	}
	w.Placements[1] = stowage.Placement{
		ItemID: 1, ContainerID: "contA", Orientation: geometry.OrientWDH,
		EffectiveDims: geometry.Dims{W: 1, D: 1, H: 1},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteArrangement(&buf, w))

	out := buf.String()
	assert.Contains(t, out, `"(1.000,0.000,2.000),(3.000,3.000,6.000)"`)

	rows, err := ReadArrangement(&buf)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(1), rows[0].ItemID, "rows ordered by item id")
	assert.Equal(t, "contA", rows[1].ContainerID)
	assert.Equal(t, 3.0, rows[1].Box.Max.X)
}

func TestWriteWaste(t *testing.T) {
	var buf bytes.Buffer
	err := WriteWaste(&buf, []stowage.WasteEntry{
		{ItemID: 9, Name: "Old Filter", Reason: stowage.WasteExpired, ContainerID: "contA", Position: "(0.000,0.000,0.000),(1.000,1.000,1.000)"},
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "9,Old Filter,expired,contA")
}

func TestLogsRoundTrip(t *testing.T) {
	ts := time.Date(2026, 8, 1, 12, 30, 0, 0, time.UTC)
	entries := []stowage.LogEntry{
		{Timestamp: ts, UserID: "astro1", ActionType: "retrieve", ItemID: 4, Details: `{"containerId":"contA"}`},
		{Timestamp: ts.Add(time.Minute), UserID: "", ActionType: "search", ItemID: 0, Details: `{}`},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteLogs(&buf, entries))

	got, err := ReadLogs(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].Timestamp.Equal(ts))
	assert.Equal(t, "astro1", got[0].UserID)
	assert.Equal(t, int64(4), got[0].ItemID)
	assert.JSONEq(t, `{"containerId":"contA"}`, got[0].Details)
}
