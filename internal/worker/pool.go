package worker

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueAlertas = "jobs:alertas"

	JobStockBajo   = "stock_bajo"
	JobVencimiento = "vencimiento"

	// MaxJobAttempts is how many times a job runs before it is parked in the DLQ.
	MaxJobAttempts = 3
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// StockBajoPayload is queued after an allocation leaves a product at or below the threshold.
type StockBajoPayload struct {
	ProductoID    string `json:"producto_id"`
	Producto      string `json:"producto"`
	UsosRestantes int    `json:"usos_restantes"`
	Existencias   int    `json:"existencias"`
	Umbral        int    `json:"umbral"`
}

// VencimientoPayload describes a lot about to expire with uses left.
type VencimientoPayload struct {
	LoteID     string    `json:"lote_id"`
	ProductoID string    `json:"producto_id"`
	Producto   string    `json:"producto"`
	FeExp      time.Time `json:"fe_exp"`
	Restantes  int       `json:"restantes"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

func (d *Dispatcher) EnqueueStockBajo(ctx context.Context, p StockBajoPayload) error {
	return d.enqueue(ctx, QueueAlertas, JobStockBajo, p)
}

func (d *Dispatcher) EnqueueVencimiento(ctx context.Context, p VencimientoPayload) error {
	return d.enqueue(ctx, QueueAlertas, JobVencimiento, p)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return pushJob(ctx, d.rdb, queue, Job{Type: jobType, Payload: data})
}

func pushJob(ctx context.Context, rdb *redis.Client, queue string, job Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return rdb.LPush(ctx, queue, encoded).Err()
}

// Handler processes one job payload. A returned error schedules a retry.
type Handler func(ctx context.Context, payload json.RawMessage) error

// Pool consumes QueueAlertas with a fixed number of goroutines.
type Pool struct {
	rdb        *redis.Client
	size       int
	handlers   map[string]Handler
	retryDelay func(attempt int) time.Duration
	wg         sync.WaitGroup
}

func NewPool(rdb *redis.Client, size int) *Pool {
	return &Pool{
		rdb:        rdb,
		size:       size,
		handlers:   make(map[string]Handler),
		retryDelay: func(attempt int) time.Duration { return time.Duration(attempt) * 5 * time.Second },
	}
}

// Handle registers the handler for a job type. Call before Start.
func (p *Pool) Handle(jobType string, h Handler) { p.handlers[jobType] = h }

// Start launches the workers. Each goroutine blocks on BRPOP, zero CPU when idle.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			p.run(ctx, id)
		}(i)
	}
	log.Info().Msgf("worker pool started with %d workers", p.size)
}

// Wait blocks until every worker has returned after ctx was cancelled.
func (p *Pool) Wait() { p.wg.Wait() }

func (p *Pool) run(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop: waits up to 5s then loops to check ctx
			result, err := p.rdb.BRPop(ctx, 5*time.Second, QueueAlertas).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			p.processJob(ctx, result[0], []byte(result[1]))
		}
	}
}

func (p *Pool) processJob(ctx context.Context, queue string, raw []byte) {
	var job Job
	if err := json.Unmarshal(raw, &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		quoted, _ := json.Marshal(string(raw))
		SendToDLQ(ctx, p.rdb, queue, Job{Type: "desconocido", Payload: quoted}, "json inválido: "+err.Error())
		return
	}

	h, ok := p.handlers[job.Type]
	if !ok {
		SendToDLQ(ctx, p.rdb, queue, job, "tipo de job sin handler")
		return
	}

	err := h(ctx, job.Payload)
	if err == nil {
		log.Debug().Str("type", job.Type).Msg("job processed")
		return
	}

	job.Attempts++
	if job.Attempts >= MaxJobAttempts {
		SendToDLQ(ctx, p.rdb, queue, job, err.Error())
		return
	}

	delay := p.retryDelay(job.Attempts)
	log.Warn().Err(err).Str("type", job.Type).Int("attempts", job.Attempts).Dur("retry_in", delay).Msg("job failed, requeueing")
	select {
	case <-ctx.Done():
	case <-time.After(delay):
	}
	// requeue even after shutdown started so the job is not lost
	if err := pushJob(context.WithoutCancel(ctx), p.rdb, queue, job); err != nil {
		log.Error().Err(err).Str("type", job.Type).Msg("failed to requeue job")
	}
}
