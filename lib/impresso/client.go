package impresso

import (
	"fmt"
	"time"

	"impresso-sampler/lib/telemetry"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("lib/impresso")

const DefaultBaseURL = "https://impresso-project.ch/public-api/v1"

type Client struct {
	http *resty.Client
}

type ClientOptions struct {
	// defaults to DefaultBaseURL when empty
	BaseURL string
	Token   string
}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.Token == "" {
		return nil, fmt.Errorf("cannot build impresso client without a token")
	}
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetAuthToken(opts.Token)
	client.SetHeader("user-agent", "impresso-sampler/1.0")
	client.SetHeader("accept", "application/json")
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "impresso/http")

	return &Client{http: client}, nil
}
