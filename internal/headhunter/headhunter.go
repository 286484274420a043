// Package headhunter reads vacancies from the hh.ru API.
package headhunter

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	apiURL    = "https://api.hh.ru"
	userAgent = "spigell/cv-screener (spigelly@gmail.com)"
)

type Client struct {
	// token is optional, public vacancies can be read anonymously.
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

func New(logger *zap.Logger, token string) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		token:  token,
		APIURL: apiURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:    logger,
		UserAgent: userAgent,
	}
}

// GetVacancy fetches a single vacancy with its full description.
func (c *Client) GetVacancy(ctx context.Context, id string) (*Vacancy, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrEmptyID
	}

	var vacancy Vacancy
	if err := c.getJSON(ctx, c.APIURL+"/vacancies/"+url.PathEscape(id), &vacancy); err != nil {
		return nil, err
	}
	return &vacancy, nil
}
