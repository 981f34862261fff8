package commands_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"simplemdm/cmd/simplemdm/commands"
	"simplemdm/internal/cli"
	"simplemdm/internal/domain"
)

type fakeClient struct {
	devices []domain.Device
	emails  map[domain.ID]string
	apps    map[domain.ID][]domain.InstalledApp
	logs    []domain.LogEntry
	err     error
}

func (f *fakeClient) ListDevices(context.Context) ([]domain.Device, error) {
	return f.devices, f.err
}

func (f *fakeClient) GetDevice(_ context.Context, id domain.ID) (domain.Device, error) {
	for _, d := range f.devices {
		if d.ID == id {
			return d, nil
		}
	}
	return domain.Device{}, errors.New("not found")
}

func (f *fakeClient) ListCustomAttributeValues(_ context.Context, id domain.ID) ([]domain.CustomAttributeValue, error) {
	var out []domain.CustomAttributeValue
	other := domain.CustomAttributeValue{ID: "department"}
	other.Attributes.Value = "IT"
	out = append(out, other)
	if email, ok := f.emails[id]; ok {
		v := domain.CustomAttributeValue{ID: domain.UsernameAttribute}
		v.Attributes.Value = email
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeClient) ListInstalledApps(_ context.Context, id domain.ID) ([]domain.InstalledApp, error) {
	return f.apps[id], nil
}

func (f *fakeClient) ListLogs(_ context.Context, limit int) ([]domain.LogEntry, error) {
	if limit > 0 && limit < len(f.logs) {
		return f.logs[:limit], nil
	}
	return f.logs, nil
}

// fakeSource resolves credentials the way the real App does.
type fakeSource struct {
	client  *fakeClient
	lastKey domain.Credential
}

func (s *fakeSource) Client(ctx context.Context, creds domain.CredentialProvider) (domain.MDMClient, error) {
	key, err := creds.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	s.lastKey = key
	return s.client, nil
}

type staticCreds struct {
	key domain.Credential
	err error
}

func (c *staticCreds) Install(key string) {
	if key != "" {
		c.key = domain.Credential(key)
	}
}
func (c *staticCreds) ForcePrompt(context.Context) (domain.Credential, error) { return c.key, c.err }
func (c *staticCreds) Resolve(context.Context) (domain.Credential, error) { return c.key, c.err }

func app(name, identifier, version string) domain.InstalledApp {
	var a domain.InstalledApp
	a.Attributes.Name = name
	a.Attributes.Identifier = identifier
	a.Attributes.Version = version
	return a
}

func fixture() *fakeClient {
	capacity := 24.23
	backup := true
	return &fakeClient{
		devices: []domain.Device{
			{ID: "121", Attributes: domain.DeviceAttributes{
				DeviceName:              "Mike's iPhone",
				Model:                   "MNAJ2LL/A",
				ModelName:               "iPhone 7",
				SerialNumber:            "DNFJE9DNG5MG",
				OSVersion:               "10.3.3",
				AvailableDeviceCapacity: &capacity,
				IsCloudBackupEnabled:    &backup,
			}},
			{ID: "122", Attributes: domain.DeviceAttributes{DeviceName: "Loaner"}},
		},
		emails: map[domain.ID]string{"121": "mike@example.com"},
		apps: map[domain.ID][]domain.InstalledApp{
			"121": {
				app("Slack", "com.tinyspeck.chatlyio", "3.1"),
				app("Slack Beta", "com.tinyspeck.beta", ""),
				app("Safari", "com.apple.mobilesafari", "10.0"),
			},
			"122": {app("slack", "com.tinyspeck.chatlyio", "2.9")},
		},
	}
}

func run(t *testing.T, client *fakeClient, creds *staticCreds, args ...string) (int, string, string, *fakeSource) {
	t.Helper()
	src := &fakeSource{client: client}
	reg := cli.NewRegistry()
	if err := commands.Register(reg, src); err != nil {
		t.Fatalf("Register: %v", err)
	}
	var stdout, stderr bytes.Buffer
	d := &cli.Dispatcher{
		Registry:    reg,
		Version:     "test",
		Credentials: creds,
		Stdout:      &stdout,
		Stderr:      &stderr,
	}
	code := d.Run(context.Background(), args)
	return code, stdout.String(), stderr.String(), src
}

func TestRegister_AllCommandsInOrder(t *testing.T) {
	reg := cli.NewRegistry()
	if err := commands.Register(reg, &fakeSource{}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	var names []string
	for _, d := range reg.All() {
		names = append(names, d.Name)
	}
	if got := strings.Join(names, ","); got != "list,software,device,apps,logs" {
		t.Fatalf("commands = %s", got)
	}
	if err := commands.Register(reg, &fakeSource{}); err == nil {
		t.Fatal("registering twice should fail")
	}
}

func TestList(t *testing.T) {
	code, out, errOut, src := run(t, fixture(), &staticCreds{}, "-k", "key-1", "list")
	if code != cli.ExitOK {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	want := `121,"mike@example.com","Mike's iPhone","MNAJ2LL/A","iPhone 7","DNFJE9DNG5MG","10.3.3","24.23","True"` + "\n" +
		`122,"","Loaner","","","","","",""` + "\n"
	if out != want {
		t.Fatalf("stdout:\n%s\nwant:\n%s", out, want)
	}
	if src.lastKey.Reveal() != "key-1" {
		t.Fatalf("client built with %q", src.lastKey.Reveal())
	}
}

func TestSoftware_MatchesAndDropsVersionless(t *testing.T) {
	code, out, errOut, _ := run(t, fixture(), &staticCreds{key: "k"}, "software", "SLACK")
	if code != cli.ExitOK {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	want := `"mike@example.com",121,"Slack","3.1"` + "\n" +
		`"",122,"slack","2.9"` + "\n"
	if out != want {
		t.Fatalf("stdout:\n%s\nwant:\n%s", out, want)
	}
}

func TestSoftware_ExactAndNoMatch(t *testing.T) {
	code, out, _, _ := run(t, fixture(), &staticCreds{key: "k"}, "software", "slack beta", "--exact")
	if code != cli.ExitOK || out != "" {
		t.Fatalf("versionless exact match: exit %d, out %q", code, out)
	}
	code, out, _, _ = run(t, fixture(), &staticCreds{key: "k"}, "software", "Zoom")
	if code != cli.ExitOK || out != "" {
		t.Fatalf("no match: exit %d, out %q", code, out)
	}
}

func TestSoftware_RequiresName(t *testing.T) {
	code, _, _, src := run(t, fixture(), &staticCreds{key: "k"}, "software")
	if code != cli.ExitFailure {
		t.Fatalf("exit %d", code)
	}
	if src.lastKey != "" {
		t.Fatal("credential resolved for an invalid invocation")
	}
}

func TestDeviceAndApps(t *testing.T) {
	code, out, errOut, _ := run(t, fixture(), &staticCreds{key: "k"}, "device", "122")
	if code != cli.ExitOK || out != `122,"","Loaner","","","","","",""`+"\n" {
		t.Fatalf("device: exit %d out %q err %q", code, out, errOut)
	}

	code, out, errOut, _ = run(t, fixture(), &staticCreds{key: "k"}, "apps", "121")
	want := `"Slack","com.tinyspeck.chatlyio","3.1"` + "\n" +
		`"Slack Beta","com.tinyspeck.beta",""` + "\n" +
		`"Safari","com.apple.mobilesafari","10.0"` + "\n"
	if code != cli.ExitOK || out != want {
		t.Fatalf("apps: exit %d out %q err %q", code, out, errOut)
	}
}

func TestLogs_Formats(t *testing.T) {
	client := fixture()
	for i, ev := range []string{"enrolled", "unenrolled"} {
		var e domain.LogEntry
		e.ID = domain.ID([]string{"a1", "a2"}[i])
		e.Attributes.EventType = ev
		e.Attributes.Namespace = "device"
		e.Attributes.Level = float64(1)
		e.Attributes.At = "2024-01-02T03:04:05Z"
		client.logs = append(client.logs, e)
	}

	code, out, errOut, _ := run(t, client, &staticCreds{key: "k"}, "logs", "--format", "csv", "-n", "1")
	if code != cli.ExitOK || out != `"a1","2024-01-02T03:04:05Z","device","enrolled","1",""`+"\n" {
		t.Fatalf("csv: exit %d out %q err %q", code, out, errOut)
	}

	code, out, _, _ = run(t, client, &staticCreds{key: "k"}, "logs")
	if code != cli.ExitOK || !strings.Contains(out, `"event_type": "unenrolled"`) {
		t.Fatalf("json: exit %d out %q", code, out)
	}

	code, out, _, _ = run(t, client, &staticCreds{key: "k"}, "logs", "-f", "yaml")
	if code != cli.ExitOK || !strings.Contains(out, "event_type: enrolled") {
		t.Fatalf("yaml: exit %d out %q", code, out)
	}

	code, _, errOut, _ = run(t, client, &staticCreds{key: "k"}, "logs", "-f", "xml")
	if code != cli.ExitFailure || !strings.Contains(errOut, "xml") {
		t.Fatalf("bad format: exit %d err %q", code, errOut)
	}
}

func TestCredentialFailureAbortsCommand(t *testing.T) {
	creds := &staticCreds{err: errors.New("no API key available and cannot prompt")}
	code, out, errOut, _ := run(t, fixture(), creds, "list")
	if code != cli.ExitFailure || out != "" {
		t.Fatalf("exit %d out %q", code, out)
	}
	if !strings.Contains(errOut, "cannot prompt") {
		t.Fatalf("stderr %q", errOut)
	}
}

func TestAPIErrorIsWrapped(t *testing.T) {
	client := fixture()
	client.err = errors.New("503 Service Unavailable")
	code, _, errOut, _ := run(t, client, &staticCreds{key: "k"}, "list")
	if code != cli.ExitFailure || !strings.Contains(errOut, "listing devices: 503") {
		t.Fatalf("exit %d err %q", code, errOut)
	}
}
