package horizon

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Fund asks the test-network faucet to credit the address. The faucet takes
// the address as a query parameter and answers with a plain HTTP status.
func (c *Client) Fund(ctx context.Context, address string) error {
	reqURL := fmt.Sprintf("%s?addr=%s", c.friendbotURL, url.QueryEscape(address))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return &FundingError{Address: address, Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &FundingError{Address: address, Err: err}
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &FundingError{Address: address, StatusCode: resp.StatusCode}
	}
	return nil
}
