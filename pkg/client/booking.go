package client

import (
	"campsite/pkg/model"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// BookingClient calls the bookings HTTP API.
type BookingClient struct {
	httpClient *HttpClient
}

func NewBookingClient(baseUrl string) *BookingClient {
	return &BookingClient{
		httpClient: NewHttpClient(baseUrl),
	}
}

func (c *BookingClient) Create(ctx context.Context, body *model.BookingCreate, idempotencyKey string) (*Response, error) {
	return c.httpClient.POST(ctx, "/api/v1/bookings", body, idempotencyHeader(idempotencyKey))
}

func (c *BookingClient) CreateRaw(ctx context.Context, rawBody []byte) (*Response, error) {
	return c.httpClient.POSTRaw(ctx, "/api/v1/bookings", rawBody)
}

func (c *BookingClient) Modify(ctx context.Context, id int64, body *model.BookingModify, idempotencyKey string) (*Response, error) {
	return c.httpClient.PUT(ctx, bookingPath(id), body, idempotencyHeader(idempotencyKey))
}

func (c *BookingClient) Cancel(ctx context.Context, id int64, reason string) (*Response, error) {
	return c.Modify(ctx, id, &model.BookingModify{Action: model.ActionCancel, Reason: reason}, "")
}

func (c *BookingClient) GetByID(ctx context.Context, id int64) (*Response, error) {
	return c.httpClient.GET(ctx, bookingPath(id))
}

func (c *BookingClient) Search(ctx context.Context, email, fromDate, toDate, status string) (*Response, error) {
	q := url.Values{}
	setIfPresent(q, "email", email)
	setIfPresent(q, "fromDate", fromDate)
	setIfPresent(q, "toDate", toDate)
	setIfPresent(q, "status", status)

	path := "/api/v1/bookings"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	return c.httpClient.GET(ctx, path)
}

func (c *BookingClient) Availability(ctx context.Context, fromDate, toDate string) (*Response, error) {
	q := url.Values{}
	setIfPresent(q, "fromDate", fromDate)
	setIfPresent(q, "toDate", toDate)
	return c.httpClient.GET(ctx, "/api/v1/availability?"+q.Encode())
}

func (c *BookingClient) DecodeBooking(resp *Response) (*model.Booking, error) {
	var booking model.Booking
	if err := decodeData(resp, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (c *BookingClient) DecodeBookings(resp *Response) ([]*model.Booking, error) {
	var bookings []*model.Booking
	if err := decodeData(resp, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (c *BookingClient) DecodeDays(resp *Response) ([]string, error) {
	var days []string
	if err := decodeData(resp, &days); err != nil {
		return nil, err
	}
	return days, nil
}

func decodeData(resp *Response, target any) error {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return fmt.Errorf("could not decode response wrapper:\n%s\n%w", resp, err)
	}
	if err := json.Unmarshal(wrapper.Data, target); err != nil {
		return fmt.Errorf("could not decode response data:\n%s\n%w", resp, err)
	}
	return nil
}

func bookingPath(id int64) string {
	return "/api/v1/bookings/" + strconv.FormatInt(id, 10)
}

func idempotencyHeader(key string) http.Header {
	if key == "" {
		return nil
	}
	return http.Header{HeaderIdempotencyKey: []string{key}}
}

func setIfPresent(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}
