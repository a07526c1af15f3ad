package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/floodlab/riskdispatch/app"
	"github.com/floodlab/riskdispatch/config"
	"github.com/floodlab/riskdispatch/core/plan"
)

func startMosquitto(ctx context.Context, t *testing.T) (tc.Container, string) {
	t.Helper()
	conf := `listener 1883
allow_anonymous true
persistence false
log_dest stdout
`
	dir := t.TempDir()
	path := filepath.Join(dir, "mosquitto.conf")
	if err := os.WriteFile(path, []byte(conf), 0644); err != nil {
		t.Fatalf("write conf: %v", err)
	}

	req := tc.ContainerRequest{
		Image:        "eclipse-mosquitto:2.0",
		ExposedPorts: []string{"1883/tcp"},
		WaitingFor:   wait.ForListeningPort("1883/tcp"),
		Files: []tc.ContainerFile{
			{
				HostFilePath:      path,
				ContainerFilePath: "/mosquitto/config/mosquitto.conf",
				FileMode:          0644,
			},
		},
	}
	cont, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Skipf("unable to start mosquitto container: %v", err)
	}
	host, err := cont.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := cont.MappedPort(ctx, "1883")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	broker := fmt.Sprintf("tcp://%s", net.JoinHostPort(host, port.Port()))
	if err := waitForMQTTReady(broker, 5*time.Second); err != nil {
		t.Skipf("mosquitto not ready at %s: %v", broker, err)
	}
	return cont, broker
}

func waitForMQTTReady(broker string, timeout time.Duration) error {
	opts := paho.NewClientOptions().AddBroker(broker).SetClientID("probe")
	deadline := time.Now().Add(timeout)
	var lastErr error
	for time.Now().Before(deadline) {
		cli := paho.NewClient(opts)
		token := cli.Connect()
		token.Wait()
		if token.Error() == nil {
			cli.Disconnect(100)
			return nil
		}
		lastErr = token.Error()
		time.Sleep(100 * time.Millisecond)
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("timeout waiting for broker")
	}
	return lastErr
}

func writeZones(t *testing.T) string {
	t.Helper()
	zones := `{"zones": [
  {"id": "floodplain", "name": "Floodplain", "river_proximity": 0.9, "elevation_risk": 0.9, "pop_density": 0.8, "crit_infra_score": 0.7, "hospital_count": 1},
  {"id": "uplands", "name": "Uplands", "river_proximity": 0.2, "elevation_risk": 0.1, "pop_density": 0.3, "crit_infra_score": 0.1}
]}`
	path := filepath.Join(t.TempDir(), "zones.json")
	if err := os.WriteFile(path, []byte(zones), 0644); err != nil {
		t.Fatalf("write zones: %v", err)
	}
	return path
}

// TestForecastToPlanOverMQTT runs the whole service against a live
// broker: a forecast published on the forecast topic must come back as a
// dispatch plan on the plan topic.
func TestForecastToPlanOverMQTT(t *testing.T) {
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed")
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cont, broker := startMosquitto(ctx, t)
	defer func() { _ = cont.Terminate(context.Background()) }()

	cfg := &config.Config{}
	cfg.SetDefaults()
	cfg.Registry.Path = writeZones(t)
	cfg.Logging.Path = filepath.Join(t.TempDir(), "plans.log")
	cfg.MQTT.Broker = broker
	cfg.MQTT.ClientID = "riskdispatch-e2e"
	cfg.Dispatch.Mode = "proportional"
	cfg.Dispatch.TotalUnits = 6
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config: %v", err)
	}

	svc, err := app.New(cfg)
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	defer func() { _ = svc.Close() }()
	go func() {
		if err := svc.Run(ctx); err != nil {
			t.Errorf("run: %v", err)
		}
	}()

	plansCh := make(chan plan.DispatchPlan, 1)
	subOpts := paho.NewClientOptions().AddBroker(broker).SetClientID("plan-listener")
	sub := paho.NewClient(subOpts)
	if token := sub.Connect(); token.Wait() && token.Error() != nil {
		t.Fatalf("subscriber connect: %v", token.Error())
	}
	defer sub.Disconnect(100)
	if token := sub.Subscribe(cfg.MQTT.PlanTopic, 1, func(_ paho.Client, m paho.Message) {
		var envelope struct {
			Plan plan.DispatchPlan `json:"plan"`
		}
		if err := json.Unmarshal(m.Payload(), &envelope); err != nil {
			t.Errorf("decode plan: %v", err)
			return
		}
		select {
		case plansCh <- envelope.Plan:
		default:
		}
	}); token.Wait() && token.Error() != nil {
		t.Fatalf("subscribe: %v", token.Error())
	}

	pubOpts := paho.NewClientOptions().AddBroker(broker).SetClientID("forecast-pub")
	pub := paho.NewClient(pubOpts)
	if token := pub.Connect(); token.Wait() && token.Error() != nil {
		t.Fatalf("publisher connect: %v", token.Error())
	}
	defer pub.Disconnect(100)
	payload, _ := json.Marshal(map[string]any{
		"global_pf":      0.6,
		"lead_time_days": 2,
		"forecast_date":  time.Now().UTC().Format(time.RFC3339),
	})
	if token := pub.Publish(cfg.MQTT.ForecastTopic, 1, false, payload); token.Wait() && token.Error() != nil {
		t.Fatalf("publish forecast: %v", token.Error())
	}

	select {
	case p := <-plansCh:
		if p.Summary.TotalAllocated != 6 {
			t.Errorf("expected all 6 units allocated, got %d", p.Summary.TotalAllocated)
		}
		if len(p.Entries) != 2 {
			t.Fatalf("expected 2 plan entries, got %d", len(p.Entries))
		}
		if p.Entries[0].ZoneID != "floodplain" {
			t.Errorf("expected floodplain ranked first, got %s", p.Entries[0].ZoneID)
		}
	case <-time.After(15 * time.Second):
		t.Fatal("no plan received over MQTT")
	}
}
