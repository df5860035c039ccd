package runner

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/chrisdamba/mealplanner/internal/cloudwriter"
	"github.com/chrisdamba/mealplanner/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"
	"go.uber.org/zap"
)

func shoppingMessage(t *testing.T, name string, qty float64) []byte {
	t.Helper()
	msg, err := json.Marshal(ShoppingItemRow{
		Timestamp: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC).Unix(),
		PlanID:    "plan-1",
		UserID:    "user-1",
		WeekStart: "2024-01-01",
		Category:  models.ShoppingProduce,
		Name:      name,
		Quantity:  qty,
		Unit:      "whole",
		RecipeIDs: "soup,stew",
	})
	require.NoError(t, err)
	return msg
}

func emptySlotMessage(t *testing.T) []byte {
	t.Helper()
	msg, err := json.Marshal(MealAssignmentRow{
		PlanID:    "plan-1",
		UserID:    "user-1",
		WeekStart: "2024-01-08",
		Date:      "2024-01-09",
		DayIndex:  1,
		MealSlot:  string(models.SlotDessert),
	})
	require.NoError(t, err)
	return msg
}

func TestConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	out := NewConsoleOutput(&buf)

	require.NoError(t, out.WriteMessage(models.TopicPlanGenerated, []byte(`{"planId":"p"}`)))
	require.NoError(t, out.Close())

	assert.Equal(t, "[plan_generated] {\"planId\":\"p\"}\n", buf.String())
}

func TestPartitionPath(t *testing.T) {
	p, err := partitionPath([]byte(`{"weekStart":"2024-01-08"}`))
	require.NoError(t, err)
	assert.Equal(t, "week=2024-01-08", p)

	_, err = partitionPath([]byte(`{"planId":"p"}`))
	assert.Error(t, err)
	_, err = partitionPath([]byte(`not json`))
	assert.Error(t, err)
}

func TestJSONOutputPartitionsByWeek(t *testing.T) {
	dir := t.TempDir()
	out := NewJSONOutput(dir, "plans")

	require.NoError(t, out.WriteMessage(models.TopicShoppingItems, shoppingMessage(t, "onion", 3)))
	require.NoError(t, out.WriteMessage(models.TopicShoppingItems, shoppingMessage(t, "carrot", 2)))
	require.NoError(t, out.WriteMessage(models.TopicMealAssignments, emptySlotMessage(t)))
	require.NoError(t, out.Close())

	data, err := os.ReadFile(filepath.Join(dir, "plans", "shopping_items", "week=2024-01-01", "data.json"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var row ShoppingItemRow
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &row))
	assert.Equal(t, "carrot", row.Name)

	_, err = os.Stat(filepath.Join(dir, "plans", "meal_assignments", "week=2024-01-08", "data.json"))
	assert.NoError(t, err)
}

func TestCSVOutput(t *testing.T) {
	dir := t.TempDir()
	out := NewCSVOutput(dir, "plans")

	require.NoError(t, out.WriteMessage(models.TopicMealAssignments, emptySlotMessage(t)))
	require.NoError(t, out.Close())

	f, err := os.Open(filepath.Join(dir, "plans", "meal_assignments", "week=2024-01-08", "data.csv"))
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	header := records[0]
	assert.Contains(t, header, "recipeId")
	assert.Contains(t, header, "accompanimentRecipeId")
	assert.IsIncreasing(t, header)

	row := map[string]string{}
	for i, h := range header {
		row[h] = records[1][i]
	}
	assert.Equal(t, "", row["recipeId"])
	assert.Equal(t, "dessert", row["mealSlot"])
	assert.Equal(t, "1", row["dayIndex"])
}

func TestCSVOutputUnknownTopic(t *testing.T) {
	out := NewCSVOutput(t.TempDir(), "plans")
	defer out.Close()

	assert.Error(t, out.WriteMessage("orders", []byte(`{"weekStart":"2024-01-01"}`)))
}

func TestParquetOutputLocal(t *testing.T) {
	dir := t.TempDir()
	cfg := &models.Config{OutputPath: dir, OutputFolder: "plans", OutputDestination: models.DestinationLocal}

	out, err := NewParquetOutput(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, out.WriteMessage(models.TopicShoppingItems, shoppingMessage(t, "onion", 3)))
	require.NoError(t, out.WriteMessage(models.TopicShoppingItems, shoppingMessage(t, "carrot", 2)))
	require.NoError(t, out.WriteMessage(models.TopicMealAssignments, emptySlotMessage(t)))
	require.NoError(t, out.Close())

	path := filepath.Join(dir, "plans", "shopping_items", "week=2024-01-01", "data.parquet")
	fr, err := local.NewLocalFileReader(path)
	require.NoError(t, err)
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, new(ShoppingItemRow), 1)
	require.NoError(t, err)
	defer pr.ReadStop()

	require.Equal(t, int64(2), pr.GetNumRows())
	rows := make([]ShoppingItemRow, 2)
	require.NoError(t, pr.Read(&rows))
	assert.Equal(t, "onion", rows[0].Name)
	assert.InDelta(t, 2.0, rows[1].Quantity, 1e-9)

	_, err = os.Stat(filepath.Join(dir, "plans", "meal_assignments", "week=2024-01-08", "data.parquet"))
	assert.NoError(t, err)
}

type memoryCloudWriter struct {
	bytes.Buffer
	closed bool
}

func (m *memoryCloudWriter) Close() error {
	m.closed = true
	return nil
}

type memoryCloudFactory struct {
	objects map[string]*memoryCloudWriter
}

func (f *memoryCloudFactory) NewWriter(bucket, objectPath string) (cloudwriter.CloudWriter, error) {
	w := &memoryCloudWriter{}
	f.objects[bucket+"/"+objectPath] = w
	return w, nil
}

func TestParquetOutputCloud(t *testing.T) {
	factory := &memoryCloudFactory{objects: map[string]*memoryCloudWriter{}}
	out := &ParquetOutput{
		folder:             "plans",
		logger:             zap.NewNop(),
		writers:            map[string]*writer.ParquetWriter{},
		files:              map[string]source.ParquetFile{},
		cloudWriterFactory: factory,
		cloudBucketName:    "bucket",
	}

	require.NoError(t, out.WriteMessage(models.TopicShoppingItems, shoppingMessage(t, "onion", 3)))
	require.NoError(t, out.Close())

	obj, ok := factory.objects["bucket/plans/shopping_items/week=2024-01-01/data.parquet"]
	require.True(t, ok)
	assert.True(t, obj.closed)
	assert.True(t, bytes.HasPrefix(obj.Bytes(), []byte("PAR1")))
	assert.True(t, bytes.HasSuffix(obj.Bytes(), []byte("PAR1")))
}

func TestCloudParquetFileSeek(t *testing.T) {
	f := NewCloudParquetFile(&memoryCloudWriter{})

	n, err := f.Write([]byte("abcd"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	pos, err := f.Seek(0, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(4), pos)

	_, err = f.Seek(0, 2)
	assert.Error(t, err)
	_, err = f.Read(make([]byte, 1))
	assert.Error(t, err)
}

func TestDetermineOutputDestination(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		cfg     models.Config
		want    interface{}
		wantErr bool
	}{
		{"console by default", models.Config{OutputFormat: models.OutputFormatJSON}, &ConsoleOutput{}, false},
		{"console format with a path", models.Config{OutputFormat: models.OutputFormatConsole, OutputPath: dir}, &ConsoleOutput{}, false},
		{"json", models.Config{OutputFormat: models.OutputFormatJSON, OutputPath: dir}, &JSONOutput{}, false},
		{"csv", models.Config{OutputFormat: models.OutputFormatCSV, OutputPath: dir}, &CSVOutput{}, false},
		{"parquet", models.Config{OutputFormat: models.OutputFormatParquet, OutputPath: dir, OutputDestination: models.DestinationLocal}, &ParquetOutput{}, false},
		{"unknown format", models.Config{OutputFormat: "xml", OutputPath: dir}, nil, true},
		{"unknown cloud provider", models.Config{OutputFormat: models.OutputFormatParquet, OutputDestination: models.DestinationS3, CloudStorage: models.CloudStorageConfig{Provider: "ftp"}}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			out, err := determineOutputDestination(context.Background(), &cfg, zap.NewNop())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, out)
			assert.NoError(t, out.Close())
		})
	}
}

func TestGetSchema(t *testing.T) {
	for _, topic := range []string{models.TopicMealAssignments, models.TopicShoppingItems, models.TopicPlanGenerated} {
		sh, err := GetSchema(topic)
		require.NoError(t, err, topic)
		assert.NotEmpty(t, sh.SchemaElements)
	}

	_, err := GetSchema("orders")
	assert.Error(t, err)
}

func TestDecodeRow(t *testing.T) {
	row, err := decodeRow(models.TopicShoppingItems, shoppingMessage(t, "onion", 3))
	require.NoError(t, err)
	item, ok := row.(*ShoppingItemRow)
	require.True(t, ok)
	assert.Equal(t, "onion", item.Name)

	_, err = decodeRow(models.TopicShoppingItems, []byte(`{`))
	assert.Error(t, err)
}
