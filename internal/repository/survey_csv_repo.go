package repository

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"child-survey/internal/domain"
)

// CSVOptions ajusta el repositorio de archivo.
type CSVOptions struct {
	// Lock serializa escritores de distintos procesos. Nil equivale a un solo proceso.
	Lock    WriterLock
	Grades  domain.GradeRange
	Rescore ScoreFunc
	Now     func() time.Time
}

// CSVSurveyRepository guarda encuestas en un unico archivo CSV append-only. La fila 1 es la
// cabecera y manda sobre el orden de columnas.
type CSVSurveyRepository struct {
	path    string
	logger  *zap.Logger
	lock    WriterLock
	grades  domain.GradeRange
	rescore ScoreFunc
	now     func() time.Time

	writeMu sync.Mutex

	stateMu    sync.Mutex
	committed  int64
	nextID     int64
	tornSuffix string
}

// NewCSVSurveyRepository abre (o prepara) el archivo en path y recupera el siguiente id.
func NewCSVSurveyRepository(path string, logger *zap.Logger, opts CSVOptions) (*CSVSurveyRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Lock == nil {
		opts.Lock = NewNoopWriterLock()
	}
	if opts.Grades == (domain.GradeRange{}) {
		opts.Grades = domain.DefaultGradeRange
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, domain.NewStorageError("open", fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err))
		}
	}

	r := &CSVSurveyRepository{
		path:    path,
		logger:  logger,
		lock:    opts.Lock,
		grades:  opts.Grades,
		rescore: opts.Rescore,
		now:     opts.Now,
		nextID:  1,
	}
	if err := r.load(); err != nil {
		return nil, domain.NewStorageError("open", err)
	}
	return r, nil
}

// Path devuelve la ruta del archivo de registros.
func (r *CSVSurveyRepository) Path() string { return r.path }

// Append asigna id y timestamp y agrega la fila con una sola escritura + fsync. Si la
// escritura falla el archivo vuelve a su largo anterior.
func (r *CSVSurveyRepository) Append(ctx context.Context, rec domain.SurveyRecord) (domain.SurveyRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.SurveyRecord{}, err
	}

	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	release, err := r.lock.Acquire(ctx)
	if err != nil {
		return domain.SurveyRecord{}, domain.NewStorageError("append", err)
	}
	defer release()

	if err := r.refresh(); err != nil {
		return domain.SurveyRecord{}, domain.NewStorageError("append", err)
	}

	r.stateMu.Lock()
	size, nextID, torn := r.committed, r.nextID, r.tornSuffix
	r.stateMu.Unlock()

	rec = sanitizeRecord(rec)
	rec.ID = nextID
	rec.Timestamp = r.now().UTC()

	var buf bytes.Buffer
	buf.WriteString(torn)
	w := csv.NewWriter(&buf)
	if size == 0 {
		_ = w.Write(domain.SurveyHeader)
	}
	_ = w.Write(encodeRow(rec))
	w.Flush()
	if err := w.Error(); err != nil {
		return domain.SurveyRecord{}, domain.NewStorageError("append", fmt.Errorf("encode row: %w", err))
	}

	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return domain.SurveyRecord{}, domain.NewStorageError("append", fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err))
	}
	n, werr := f.Write(buf.Bytes())
	if werr == nil {
		werr = f.Sync()
	}
	if werr != nil {
		if terr := f.Truncate(size); terr != nil {
			r.logger.Error("failed to roll back partial survey row", zap.String("path", r.path), zap.Error(terr))
		}
		_ = f.Close()
		return domain.SurveyRecord{}, domain.NewStorageError("append", fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, werr))
	}
	if err := f.Close(); err != nil {
		r.logger.Warn("close survey file", zap.String("path", r.path), zap.Error(err))
	}

	r.stateMu.Lock()
	r.committed = size + int64(n)
	r.nextID = nextID + 1
	r.tornSuffix = ""
	r.stateMu.Unlock()

	return rec, nil
}

// ScanAll lee solo el prefijo confirmado del archivo. No toma el lock de escritura.
func (r *CSVSurveyRepository) ScanAll(ctx context.Context) (ScanResult, error) {
	size := r.committedSize()
	if size == 0 {
		return ScanResult{}, nil
	}

	f, err := os.Open(r.path)
	if err != nil {
		return ScanResult{}, domain.NewStorageError("scan", fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err))
	}
	defer f.Close()

	res, _, err := r.readLog(ctx, io.NewSectionReader(f, 0, size))
	if err != nil {
		return ScanResult{}, domain.NewStorageError("scan", err)
	}
	for _, p := range res.Problems {
		r.logger.Warn("skipped invalid survey row",
			zap.String("path", r.path),
			zap.Int("row", p.Row),
			zap.String("reason", p.Reason),
		)
	}
	return res, nil
}

// committedSize devuelve el largo confirmado. Si otro proceso agrego filas completas desde
// la ultima escritura propia, las incluye.
func (r *CSVSurveyRepository) committedSize() int64 {
	r.stateMu.Lock()
	size := r.committed
	r.stateMu.Unlock()

	info, err := os.Stat(r.path)
	if err != nil || info.Size() <= size {
		return size
	}
	if last, err := lastByte(r.path, info.Size()); err == nil && last == '\n' {
		return info.Size()
	}
	return size
}

// refresh recarga el estado si el archivo cambio por fuera de este proceso.
func (r *CSVSurveyRepository) refresh() error {
	info, err := os.Stat(r.path)
	var size int64
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	default:
		size = info.Size()
	}

	r.stateMu.Lock()
	same := size == r.committed
	r.stateMu.Unlock()
	if same {
		return nil
	}
	return r.load()
}

func (r *CSVSurveyRepository) load() error {
	f, err := os.Open(r.path)
	if errors.Is(err, os.ErrNotExist) {
		r.setState(0, 1, "")
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	size := info.Size()
	if size == 0 {
		r.setState(0, 1, "")
		return nil
	}

	_, maxID, err := r.readLog(context.Background(), io.NewSectionReader(f, 0, size))
	if err != nil {
		return err
	}
	tail, err := tornTail(f, size)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	torn, tornID := closeTorn(tail)
	if torn != "" {
		r.logger.Warn("survey file ends with a torn row", zap.String("path", r.path))
	}
	if tornID > maxID {
		maxID = tornID
	}
	r.setState(size, maxID+1, torn)
	return nil
}

func (r *CSVSurveyRepository) setState(size, nextID int64, torn string) {
	r.stateMu.Lock()
	r.committed = size
	r.nextID = nextID
	r.tornSuffix = torn
	r.stateMu.Unlock()
}

// maxRowBytes limita el largo de una fila. Las filas mas largas se saltan enteras.
const maxRowBytes = 1 << 20

// readLog recorre el archivo linea por linea y devuelve las filas validas en orden, mas el
// mayor id visto en cualquier fila (valida o no) para no reutilizarlo. Cada fila ocupa una
// sola linea, asi que una fila rota no arrastra a las siguientes.
func (r *CSVSurveyRepository) readLog(ctx context.Context, src io.Reader) (ScanResult, int64, error) {
	var res ScanResult
	br := bufio.NewReaderSize(src, maxRowBytes)

	line, _, err := readLine(br)
	if len(line) == 0 && err == io.EOF {
		return res, 0, nil
	}
	if err != nil && err != io.EOF {
		return res, 0, fmt.Errorf("read header: %w", err)
	}
	header, perr := parseLine(line)
	if perr != nil {
		return res, 0, fmt.Errorf("read header: %w", perr)
	}
	cols, err := newColumnMap(header)
	if err != nil {
		return res, 0, err
	}

	var maxID, lastID int64
	for row := 2; ; row++ {
		if row%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return res, maxID, err
			}
		}
		line, truncated, err := readLine(br)
		if err != nil && err != io.EOF {
			return res, maxID, err
		}
		if len(line) == 0 && err == io.EOF {
			break
		}
		if id := leadingID(line); id > maxID {
			maxID = id
		}

		switch fields, perr := parseLine(line); {
		case truncated:
			res.skip(row, fmt.Sprintf("row longer than %d bytes", maxRowBytes))
		case perr != nil:
			res.skip(row, perr.Error())
		case len(fields) == 0:
			// linea en blanco
		default:
			rec, derr := decodeRow(cols, fields, r.grades, r.rescore)
			if derr != nil {
				res.skip(row, derr.Error())
				break
			}
			if rec.ID <= lastID {
				res.skip(row, fmt.Sprintf("id %d does not follow id %d", rec.ID, lastID))
				break
			}
			lastID = rec.ID
			res.Records = append(res.Records, rec)
		}

		if err == io.EOF {
			break
		}
	}
	return res, maxID, nil
}

// readLine devuelve la siguiente linea sin el salto final. Si excede el buffer devuelve el
// primer tramo con truncated y descarta el resto.
func readLine(br *bufio.Reader) (line []byte, truncated bool, err error) {
	line, err = br.ReadSlice('\n')
	if err == bufio.ErrBufferFull {
		line = append([]byte(nil), line...)
		truncated = true
		for err == bufio.ErrBufferFull {
			_, err = br.ReadSlice('\n')
		}
	}
	line = bytes.TrimRight(line, "\r\n")
	return line, truncated, err
}

// parseLine decodifica una linea como un registro CSV independiente.
func parseLine(line []byte) ([]string, error) {
	reader := csv.NewReader(bytes.NewReader(line))
	reader.FieldsPerRecord = -1
	fields, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			return nil, perr.Err
		}
		return nil, err
	}
	return fields, nil
}

// leadingID lee el id de la primera columna aunque el resto de la linea no se pueda parsear.
func leadingID(line []byte) int64 {
	i := bytes.IndexByte(line, ',')
	if i <= 0 {
		return 0
	}
	id, err := strconv.ParseInt(string(bytes.Trim(bytes.TrimSpace(line[:i]), `"`)), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func lastByte(path string, size int64) (byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	b := make([]byte, 1)
	if _, err := f.ReadAt(b, size-1); err != nil {
		return 0, err
	}
	return b[0], nil
}

// tornTail devuelve los bytes posteriores al ultimo salto de linea, o nil si el archivo
// termina en una linea completa.
func tornTail(f io.ReaderAt, size int64) ([]byte, error) {
	const chunk = 4096
	var tail []byte
	for end := size; end > 0; {
		start := end - chunk
		if start < 0 {
			start = 0
		}
		buf := make([]byte, end-start)
		if _, err := f.ReadAt(buf, start); err != nil && err != io.EOF {
			return nil, err
		}
		if end == size && buf[len(buf)-1] == '\n' {
			return nil, nil
		}
		if i := bytes.LastIndexByte(buf, '\n'); i >= 0 {
			return append(buf[i+1:], tail...), nil
		}
		tail = append(buf, tail...)
		end = start
	}
	return tail, nil
}

// closeTorn arma el cierre de una linea sin terminar: un salto de linea, precedido de una
// comilla si quedo un campo entre comillas abierto. Devuelve tambien el id que la linea
// alcanzo a escribir, para no repetirlo.
func closeTorn(tail []byte) (string, int64) {
	if len(tail) == 0 {
		return "", 0
	}
	id := leadingID(tail)
	if bytes.Count(tail, []byte{'"'})%2 == 1 {
		return "\"\n", id
	}
	return "\n", id
}
