package mqtt

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/floodlab/riskdispatch/core/model"
	coremqtt "github.com/floodlab/riskdispatch/core/mqtt"
	"github.com/floodlab/riskdispatch/core/plan"
	"github.com/floodlab/riskdispatch/infra/logger"
)

// Config defines the connection parameters for the Paho MQTT client.
type Config struct {
	Broker        string `json:"broker"`
	ClientID      string `json:"client_id"`
	Username      string `json:"username"`
	Password      string `json:"password"`
	ForecastTopic string `json:"forecast_topic"`
	PlanTopic     string `json:"plan_topic"`
	UseTLS        bool   `json:"use_tls"`
	ClientCert    string `json:"client_cert"`
	ClientKey     string `json:"client_key"`
	CABundle      string `json:"ca_bundle"`
	// QoS maps the "forecast" and "plan" channels to their QoS level.
	QoS        map[string]byte `json:"qos"`
	LWTTopic   string          `json:"lwt_topic"`
	LWTPayload string          `json:"lwt_payload"`
	LWTQoS     byte            `json:"lwt_qos"`
	LWTRetain  bool            `json:"lwt_retain"`
	MaxRetries int             `json:"max_retries"`
	BackoffMS  int             `json:"backoff_ms"`
	TLSConfig  *tls.Config     `json:"-"`
}

// Enabled reports whether a broker is configured at all.
func (c Config) Enabled() bool { return c.Broker != "" }

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "riskdispatch"
	}
	if c.ForecastTopic == "" {
		c.ForecastTopic = "flood/forecast"
	}
	if c.PlanTopic == "" {
		c.PlanTopic = "flood/plans"
	}
}

// Validate checks mandatory fields when a broker is configured.
func (c Config) Validate() error {
	if !c.Enabled() {
		return nil
	}
	if c.ClientID == "" {
		return fmt.Errorf("client_id is required")
	}
	if c.ForecastTopic == "" && c.PlanTopic == "" {
		return fmt.Errorf("at least one of forecast_topic or plan_topic is required")
	}
	return nil
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Subscribe(topic string, qos byte, callback paho.MessageHandler) paho.Token
}

// PahoClient subscribes to forecast messages and publishes dispatch plans
// using Eclipse Paho.
type PahoClient struct {
	cli           pahoClient
	forecastTopic string
	planTopic     string
	qos           map[string]byte
	handler       coremqtt.ForecastHandler
	logger        logger.Logger
	maxRetries    int
	backoff       time.Duration
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// NewPahoClient connects to the MQTT broker. When handler is non-nil the
// client subscribes to the forecast topic and feeds decoded forecasts to it.
func NewPahoClient(cfg Config, handler coremqtt.ForecastHandler) (*PahoClient, error) {
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}

	logger := logger.New("mqtt_client")
	pc := &PahoClient{
		forecastTopic: cfg.ForecastTopic,
		planTopic:     cfg.PlanTopic,
		qos:           cfg.QoS,
		handler:       handler,
		logger:        logger,
		maxRetries:    cfg.MaxRetries,
		backoff:       time.Duration(cfg.BackoffMS) * time.Millisecond,
	}

	opts.OnConnect = func(c paho.Client) {
		logger.Infof("MQTT connected")
		if pc.handler == nil || pc.forecastTopic == "" {
			return
		}
		qos := byte(0)
		if q, ok := pc.qos["forecast"]; ok {
			qos = q
		}
		if token := c.Subscribe(pc.forecastTopic, qos, pc.onForecast); token.Wait() && token.Error() != nil {
			logger.Errorf("subscribe error: %v", token.Error())
		}
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		logger.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		logger.Warnf("reconnecting to MQTT broker")
	}
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	pc.cli = c
	return pc, nil
}

// NewClientOptions builds mqtt client options from Config.
func NewClientOptions(cfg Config) (*paho.ClientOptions, error) {
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	if cfg.UseTLS {
		tlsCfg, err := cfg.LoadTLSConfig()
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}
	if cfg.LWTTopic != "" {
		opts.SetWill(cfg.LWTTopic, cfg.LWTPayload, cfg.LWTQoS, cfg.LWTRetain)
	}
	return opts, nil
}

// LoadTLSConfig loads the TLS configuration from the file paths in the config.
func (c Config) LoadTLSConfig() (*tls.Config, error) {
	if c.TLSConfig != nil {
		return c.TLSConfig, nil
	}
	if c.ClientCert == "" || c.ClientKey == "" || c.CABundle == "" {
		return nil, fmt.Errorf("tls config requires client_cert, client_key and ca_bundle")
	}
	cert, err := tls.LoadX509KeyPair(c.ClientCert, c.ClientKey)
	if err != nil {
		return nil, fmt.Errorf("load cert: %w", err)
	}
	caBytes, err := os.ReadFile(c.CABundle)
	if err != nil {
		return nil, fmt.Errorf("read ca: %w", err)
	}
	pool := x509.NewCertPool()
	pool.AppendCertsFromPEM(caBytes)
	cfg := &tls.Config{Certificates: []tls.Certificate{cert}, RootCAs: pool, MinVersion: tls.VersionTLS12}
	return cfg, nil
}

func (p *PahoClient) onForecast(_ paho.Client, msg paho.Message) {
	var f model.ForecastInput
	if err := json.Unmarshal(msg.Payload(), &f); err != nil {
		p.logger.Errorf("failed to decode forecast: %v", err)
		return
	}
	if err := f.Validate(); err != nil {
		p.logger.Errorf("dropping invalid forecast: %v", err)
		return
	}
	p.logger.Infof("received forecast pf=%.3f lead=%dd", f.GlobalPf, f.LeadTimeDays)
	p.handler(f)
}

// PublishPlan publishes the dispatch plan to the plan topic and returns the
// message identifier attached to the payload.
func (p *PahoClient) PublishPlan(dp plan.DispatchPlan) (string, error) {
	if p.cli == nil || !p.cli.IsConnected() {
		return "", coremqtt.ErrNotConnected
	}
	msgID := uuid.NewString()
	envelope := struct {
		MessageID string            `json:"message_id"`
		Timestamp int64             `json:"timestamp"`
		Plan      plan.DispatchPlan `json:"plan"`
	}{
		MessageID: msgID,
		Timestamp: time.Now().UnixMilli(),
		Plan:      dp,
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return "", err
	}

	qos := byte(0)
	if q, ok := p.qos["plan"]; ok {
		qos = q
	}
	if p.maxRetries <= 0 {
		p.maxRetries = 3
	}
	if p.backoff <= 0 {
		p.backoff = 100 * time.Millisecond
	}
	var publishErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		token := p.cli.Publish(p.planTopic, qos, false, payload)
		token.Wait()
		publishErr = token.Error()
		if publishErr == nil {
			p.logger.Infof("published plan %s to %s", msgID, p.planTopic)
			break
		}
		p.logger.Errorf("publish attempt %d failed: %v", attempt+1, publishErr)
		time.Sleep(p.backoff * time.Duration(1<<attempt))
	}
	if publishErr != nil {
		return "", publishErr
	}
	return msgID, nil
}

// Disconnect gracefully closes the MQTT connection.
func (p *PahoClient) Disconnect() {
	if p.cli != nil && p.cli.IsConnected() {
		p.cli.Disconnect(250)
	}
}
