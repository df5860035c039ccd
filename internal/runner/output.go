package runner

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/chrisdamba/mealplanner/internal/cloudwriter"
	"github.com/chrisdamba/mealplanner/internal/models"
	"github.com/chrisdamba/mealplanner/internal/runner/producers"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"
	"go.uber.org/zap"
)

type OutputDestination interface {
	WriteMessage(topic string, msg []byte) error
	Close() error
}

type ConsoleOutput struct {
	out io.Writer
}

func NewConsoleOutput(out io.Writer) *ConsoleOutput {
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleOutput{out: out}
}

func (c *ConsoleOutput) WriteMessage(topic string, msg []byte) error {
	if _, err := fmt.Fprintf(c.out, "[%s] %s\n", topic, msg); err != nil {
		return fmt.Errorf("failed to write to console: %w", err)
	}
	return nil
}

func (c *ConsoleOutput) Close() error {
	if f, ok := c.out.(*os.File); ok {
		_ = f.Sync()
	}
	return nil
}

// partitionPath places every row under the Monday of the week it belongs to.
func partitionPath(msg []byte) (string, error) {
	var event struct {
		WeekStart string `json:"weekStart"`
	}
	if err := json.Unmarshal(msg, &event); err != nil {
		return "", err
	}
	if event.WeekStart == "" {
		return "", fmt.Errorf("missing weekStart")
	}
	return "week=" + event.WeekStart, nil
}

type JSONOutput struct {
	basePath string
	folder   string
	files    map[string]*os.File
}

func NewJSONOutput(basePath, folder string) *JSONOutput {
	return &JSONOutput{
		basePath: basePath,
		folder:   folder,
		files:    make(map[string]*os.File),
	}
}

func (j *JSONOutput) WriteMessage(topic string, msg []byte) error {
	partition, err := partitionPath(msg)
	if err != nil {
		return err
	}
	fullPath := filepath.Join(j.basePath, j.folder, topic, partition)

	fileKey := topic + "_" + partition
	file, ok := j.files[fileKey]
	if !ok {
		if err := os.MkdirAll(fullPath, os.ModePerm); err != nil {
			return err
		}
		file, err = os.Create(filepath.Join(fullPath, "data.json"))
		if err != nil {
			return err
		}
		j.files[fileKey] = file
	}

	if _, err := file.Write(msg); err != nil {
		return err
	}
	_, err = file.WriteString("\n")
	return err
}

func (j *JSONOutput) Close() error {
	var lastErr error
	for _, file := range j.files {
		if err := file.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

type CSVOutput struct {
	basePath string
	folder   string
	files    map[string]*os.File
	writers  map[string]*csv.Writer
	headers  map[string][]string
}

func NewCSVOutput(basePath, folder string) *CSVOutput {
	return &CSVOutput{
		basePath: basePath,
		folder:   folder,
		files:    make(map[string]*os.File),
		writers:  make(map[string]*csv.Writer),
		headers:  make(map[string][]string),
	}
}

func (c *CSVOutput) WriteMessage(topic string, msg []byte) error {
	var event map[string]interface{}
	if err := json.Unmarshal(msg, &event); err != nil {
		return err
	}
	partition, err := partitionPath(msg)
	if err != nil {
		return err
	}
	fullPath := filepath.Join(c.basePath, c.folder, topic, partition)

	fileKey := topic + "_" + partition
	csvWriter, ok := c.writers[fileKey]
	if !ok {
		if err := os.MkdirAll(fullPath, os.ModePerm); err != nil {
			return err
		}
		file, err := os.Create(filepath.Join(fullPath, "data.csv"))
		if err != nil {
			return err
		}
		csvWriter = csv.NewWriter(file)
		c.files[fileKey] = file
		c.writers[fileKey] = csvWriter

		headers, err := csvHeaders(topic)
		if err != nil {
			return err
		}
		if err := csvWriter.Write(headers); err != nil {
			return err
		}
		c.headers[fileKey] = headers
	}

	row := make([]string, len(c.headers[fileKey]))
	for i, header := range c.headers[fileKey] {
		if value, ok := event[header]; ok && value != nil {
			row[i] = fmt.Sprintf("%v", value)
		}
	}

	if err := csvWriter.Write(row); err != nil {
		return err
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

// csvHeaders lists every json field of the topic's row type, so optional
// columns exist even when the first row leaves them out.
func csvHeaders(topic string) ([]string, error) {
	row, err := newRowForTopic(topic)
	if err != nil {
		return nil, err
	}
	t := reflect.TypeOf(row).Elem()
	headers := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		headers = append(headers, name)
	}
	sort.Strings(headers)
	return headers, nil
}

func (c *CSVOutput) Close() error {
	var lastErr error
	for key, csvWriter := range c.writers {
		csvWriter.Flush()
		if err := csvWriter.Error(); err != nil {
			lastErr = err
		}
		if err := c.files[key].Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

type ParquetOutput struct {
	basePath           string
	folder             string
	logger             *zap.Logger
	mu                 sync.Mutex
	writers            map[string]*writer.ParquetWriter
	files              map[string]source.ParquetFile
	cloudWriterFactory cloudwriter.CloudWriterFactory
	cloudBucketName    string
}

// CloudParquetFile adapts a CloudWriter to the write-only subset of source.ParquetFile.
type CloudParquetFile struct {
	cloudWriter cloudwriter.CloudWriter
	offset      int64
}

func NewCloudParquetFile(cloudWriter cloudwriter.CloudWriter) *CloudParquetFile {
	return &CloudParquetFile{cloudWriter: cloudWriter}
}

func (c *CloudParquetFile) Open(string) (source.ParquetFile, error) {
	return c, nil
}

func (c *CloudParquetFile) Create(string) (source.ParquetFile, error) {
	return c, nil
}

func (c *CloudParquetFile) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		c.offset = offset
	case io.SeekCurrent:
		c.offset += offset
	case io.SeekEnd:
		return 0, fmt.Errorf("seek from end not supported for cloud storage")
	}
	return c.offset, nil
}

func (c *CloudParquetFile) Read([]byte) (int, error) {
	return 0, fmt.Errorf("read not supported for cloud storage")
}

func (c *CloudParquetFile) Write(p []byte) (int, error) {
	n, err := c.cloudWriter.Write(p)
	c.offset += int64(n)
	return n, err
}

func (c *CloudParquetFile) Close() error {
	return c.cloudWriter.Close()
}

func NewParquetOutput(ctx context.Context, config *models.Config, logger *zap.Logger) (*ParquetOutput, error) {
	p := &ParquetOutput{
		basePath: config.OutputPath,
		folder:   config.OutputFolder,
		logger:   logger,
		writers:  make(map[string]*writer.ParquetWriter),
		files:    make(map[string]source.ParquetFile),
	}

	if config.OutputDestination == models.DestinationS3 {
		var factory cloudwriter.CloudWriterFactory
		var err error

		switch config.CloudStorage.Provider {
		case "s3", "aws":
			factory, err = cloudwriter.NewS3WriterFactory(ctx, config.CloudStorage.Region)
		default:
			return nil, fmt.Errorf("unsupported cloud storage provider: %s", config.CloudStorage.Provider)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud writer factory: %w", err)
		}

		p.cloudWriterFactory = factory
		p.cloudBucketName = config.CloudStorage.BucketName
		return p, nil
	}

	p.cleanup()
	return p, nil
}

func (p *ParquetOutput) WriteMessage(topic string, msg []byte) error {
	partition, err := partitionPath(msg)
	if err != nil {
		return err
	}
	row, err := decodeRow(topic, msg)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	writerKey := topic + "_" + partition
	pw, ok := p.writers[writerKey]
	if !ok {
		pw, err = p.createNewWriter(writerKey, topic, partition)
		if err != nil {
			return fmt.Errorf("failed to create new writer: %w", err)
		}
	}

	if err := pw.Write(reflect.ValueOf(row).Elem().Interface()); err != nil {
		return fmt.Errorf("failed to write %s row: %w", topic, err)
	}
	return nil
}

func (p *ParquetOutput) createNewWriter(writerKey, topic, partition string) (*writer.ParquetWriter, error) {
	var fw source.ParquetFile
	if p.cloudWriterFactory != nil {
		objectPath := path.Join(p.folder, topic, partition, "data.parquet")
		cloudWriter, err := p.cloudWriterFactory.NewWriter(p.cloudBucketName, objectPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud file writer: %w", err)
		}
		fw = NewCloudParquetFile(cloudWriter)
	} else {
		fullPath := filepath.Join(p.basePath, p.folder, topic, partition)
		if err := os.MkdirAll(fullPath, os.ModePerm); err != nil {
			return nil, err
		}
		localFile, err := local.NewLocalFileWriter(filepath.Join(fullPath, "data.parquet"))
		if err != nil {
			return nil, fmt.Errorf("failed to create local file writer: %w", err)
		}
		fw = localFile
	}

	row, err := newRowForTopic(topic)
	if err != nil {
		return nil, err
	}
	pw, err := writer.NewParquetWriter(fw, row, 4)
	if err != nil {
		return nil, fmt.Errorf("failed to create ParquetWriter: %w", err)
	}

	p.writers[writerKey] = pw
	p.files[writerKey] = fw
	return pw, nil
}

func (p *ParquetOutput) cleanup() {
	fullPath := filepath.Join(p.basePath, p.folder)
	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return
	}
	err := filepath.Walk(fullPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".parquet" {
			return os.Remove(path)
		}
		return nil
	})
	if err != nil {
		p.logger.Warn("error cleaning up parquet files", zap.String("path", fullPath), zap.Error(err))
	}
}

func (p *ParquetOutput) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var lastErr error
	for key, pw := range p.writers {
		if err := pw.WriteStop(); err != nil {
			lastErr = err
			p.logger.Error("error closing parquet writer", zap.String("key", key), zap.Error(err))
		}
		if f, ok := p.files[key]; ok {
			if err := f.Close(); err != nil {
				lastErr = err
				p.logger.Error("error closing parquet file", zap.String("key", key), zap.Error(err))
			}
		}
	}
	return lastErr
}

// determineOutputDestination picks Kafka when enabled, a file format when an
// output location is configured, and the console otherwise.
func determineOutputDestination(ctx context.Context, cfg *models.Config, logger *zap.Logger) (OutputDestination, error) {
	if cfg.KafkaEnabled {
		return producers.NewSaramaProducer(cfg, logger)
	}
	if cfg.OutputPath != "" || cfg.OutputDestination == models.DestinationS3 {
		switch cfg.OutputFormat {
		case models.OutputFormatParquet:
			return NewParquetOutput(ctx, cfg, logger)
		case models.OutputFormatJSON:
			return NewJSONOutput(cfg.OutputPath, cfg.OutputFolder), nil
		case models.OutputFormatCSV:
			return NewCSVOutput(cfg.OutputPath, cfg.OutputFolder), nil
		case models.OutputFormatConsole:
		default:
			return nil, fmt.Errorf("unsupported output format: %s", cfg.OutputFormat)
		}
	}
	return NewConsoleOutput(os.Stdout), nil
}
