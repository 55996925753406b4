// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector は購読フローのPrometheusメトリクスを収集する。
// subscription.MetricsRecorderの実装。
type Collector struct {
	submissionsAccepted prometheus.Counter
	submissionsRejected prometheus.Counter
	submissionConflicts prometheus.Counter
	emailsSent          prometheus.Counter
	emailSendFailures   prometheus.Counter
	emailSendLatency    prometheus.Histogram
	confirmations       prometheus.Counter
	invalidTokens       prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		submissionsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "merumaga_submissions_accepted_total",
			Help: "受け付けた購読申し込みの合計数",
		}),
		submissionsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "merumaga_submissions_rejected_total",
			Help: "入力検証で拒否した購読申し込みの合計数",
		}),
		submissionConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "merumaga_submission_conflicts_total",
			Help: "email重複で拒否した購読申し込みの合計数",
		}),
		emailsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "merumaga_emails_sent_total",
			Help: "送信に成功した確認メールの合計数",
		}),
		emailSendFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "merumaga_email_send_fail_total",
			Help: "送信に失敗した確認メールの合計数",
		}),
		emailSendLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "merumaga_email_send_latency_seconds",
			Help:    "確認メール送信のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		confirmations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "merumaga_confirmations_total",
			Help: "確定した購読の合計数",
		}),
		invalidTokens: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "merumaga_invalid_tokens_total",
			Help: "無効な確認トークンでのアクセスの合計数",
		}),
	}

	reg.MustRegister(
		c.submissionsAccepted,
		c.submissionsRejected,
		c.submissionConflicts,
		c.emailsSent,
		c.emailSendFailures,
		c.emailSendLatency,
		c.confirmations,
		c.invalidTokens,
	)

	return c
}

// RecordSubmissionAccepted は申し込み受け付けを記録する。
func (c *Collector) RecordSubmissionAccepted() {
	c.submissionsAccepted.Inc()
}

// RecordSubmissionRejected は入力検証による拒否を記録する。
func (c *Collector) RecordSubmissionRejected() {
	c.submissionsRejected.Inc()
}

// RecordSubmissionConflict はemail重複による拒否を記録する。
func (c *Collector) RecordSubmissionConflict() {
	c.submissionConflicts.Inc()
}

// RecordEmailSent は確認メールの送信成功を記録する。
func (c *Collector) RecordEmailSent() {
	c.emailsSent.Inc()
}

// RecordEmailSendFailure は確認メールの送信失敗を記録する。
func (c *Collector) RecordEmailSendFailure() {
	c.emailSendFailures.Inc()
}

// RecordEmailSendLatency は確認メール送信のレイテンシを記録する。
func (c *Collector) RecordEmailSendLatency(d time.Duration) {
	c.emailSendLatency.Observe(d.Seconds())
}

// RecordConfirmation は購読の確定を記録する。
func (c *Collector) RecordConfirmation() {
	c.confirmations.Inc()
}

// RecordInvalidToken は無効トークンでのアクセスを記録する。
func (c *Collector) RecordInvalidToken() {
	c.invalidTokens.Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
