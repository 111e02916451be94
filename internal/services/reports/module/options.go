package module

import (
	"rephraser/internal/platform/config"
)

// Options controls report persistence
type Options struct {
	Dir          string
	Queue        int
	Workers      int
	KafkaBrokers []string
	KafkaTopic   string
	KafkaAcks    string
	// DisableFile skips the file sink, used by tools that only want pg or kafka
	DisableFile bool
}

// FromConfig reads with the REPORTS_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("REPORTS_")
	return Options{
		Dir:          c.MayString("DIR", "reports"),
		Queue:        c.MayInt("QUEUE", 64),
		Workers:      c.MayInt("WORKERS", 1),
		KafkaBrokers: c.MayCSV("KAFKA_BROKERS", nil),
		KafkaTopic:   c.MayString("KAFKA_TOPIC", "moderation-reports"),
		KafkaAcks:    c.MayEnum("KAFKA_ACKS", "one", "none", "one", "all"),
	}
}

func merge(base, o Options) Options {
	if o.Dir != "" {
		base.Dir = o.Dir
	}
	if o.Queue != 0 {
		base.Queue = o.Queue
	}
	if o.Workers != 0 {
		base.Workers = o.Workers
	}
	if len(o.KafkaBrokers) > 0 {
		base.KafkaBrokers = o.KafkaBrokers
	}
	if o.KafkaTopic != "" {
		base.KafkaTopic = o.KafkaTopic
	}
	if o.KafkaAcks != "" {
		base.KafkaAcks = o.KafkaAcks
	}
	if o.DisableFile {
		base.DisableFile = true
	}
	return base
}
