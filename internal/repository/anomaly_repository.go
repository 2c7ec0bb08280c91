package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"PulseWatch/internal/domain/models"
	"PulseWatch/internal/domain/repository"
	pkgkafka "PulseWatch/pkg/kafka"
)

// ClickHouseArchive implements Archive for ClickHouse.
type ClickHouseArchive struct {
	db    *sql.DB
	table string
}

// NewClickHouseArchive creates a ClickHouse anomaly archive.
func NewClickHouseArchive(db *sql.DB, table string) repository.Archive {
	return &ClickHouseArchive{db: db, table: table}
}

func (s *ClickHouseArchive) Init(ctx context.Context) error {
	return nil // Schema init in pkg
}

func (s *ClickHouseArchive) Store(ctx context.Context, ev *models.AnomalyEvent) error {
	q := fmt.Sprintf("INSERT INTO %s (event_id, type, instrument_id, display_name, value, description, occurred_at, severity, market) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)", s.table)
	_, err := s.db.ExecContext(ctx, q,
		ev.ID,
		string(ev.Type),
		ev.InstrumentID,
		ev.DisplayName,
		ev.Value,
		ev.Description,
		ev.OccurredAt,
		string(ev.Severity),
		string(ev.Market),
	)
	return err
}

// StoreBatch inserts many events with a multi-row VALUES list to reduce
// round-trips.
func (s *ClickHouseArchive) StoreBatch(ctx context.Context, evs []*models.AnomalyEvent) error {
	if len(evs) == 0 {
		return nil
	}
	const chunkSize = 2000
	for start := 0; start < len(evs); start += chunkSize {
		end := start + chunkSize
		if end > len(evs) {
			end = len(evs)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*9)
		for _, ev := range evs[start:end] {
			if ev == nil || ev.ID == "" {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args,
				ev.ID,
				string(ev.Type),
				ev.InstrumentID,
				ev.DisplayName,
				ev.Value,
				ev.Description,
				ev.OccurredAt,
				string(ev.Severity),
				string(ev.Market),
			)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (event_id, type, instrument_id, display_name, value, description, occurred_at, severity, market) VALUES %s", s.table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	return nil
}

func (s *ClickHouseArchive) Query(ctx context.Context, market models.Market, from, to time.Time, limit int) ([]*models.AnomalyEvent, error) {
	q := fmt.Sprintf("SELECT event_id, type, instrument_id, display_name, value, description, occurred_at, severity, market FROM %s WHERE market = ? AND occurred_at >= ? AND occurred_at <= ? ORDER BY occurred_at DESC LIMIT ?", s.table)
	rows, err := s.db.QueryContext(ctx, q, string(market), from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*models.AnomalyEvent
	for rows.Next() {
		var ev models.AnomalyEvent
		var typ, sev, mkt string
		if err := rows.Scan(&ev.ID, &typ, &ev.InstrumentID, &ev.DisplayName, &ev.Value, &ev.Description, &ev.OccurredAt, &sev, &mkt); err != nil {
			return nil, err
		}
		ev.Type = models.AnomalyType(typ)
		ev.Severity = models.Severity(sev)
		ev.Market = models.Market(mkt)
		events = append(events, &ev)
	}
	return events, rows.Err()
}

func (s *ClickHouseArchive) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseArchive) Close() error {
	return nil // Managed by pkg
}

// KafkaPublisher implements Publisher for Kafka.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaPublisher creates a Kafka anomaly publisher.
func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) repository.Publisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev *models.AnomalyEvent) error {
	// Keyed by instrument so per-instrument ordering survives partitioning.
	return p.producer.Publish(ctx, p.topic, []byte(ev.InstrumentID), ev)
}

func (p *KafkaPublisher) PublishBatch(ctx context.Context, evs []*models.AnomalyEvent) error {
	if len(evs) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(evs))
	for i, ev := range evs {
		msgs[i] = pkgkafka.Message{Key: []byte(ev.InstrumentID), Value: ev}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
