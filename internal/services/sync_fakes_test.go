package services

import (
	"context"
	"errors"
	"time"

	"github.com/grupolocar/locar-api/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
)

var errFakeWrite = errors.New("simulated write failure")

// fakeConnector hands out in-memory stores and records which sides were opened
type fakeConnector struct {
	remote    *fakeRemoteStore
	local     *fakeLocalStore
	opened    []string
	remoteErr error
	localErr  error
}

func (c *fakeConnector) OpenRemote(ctx context.Context, uri string) (RemoteEmployeeStore, error) {
	c.opened = append(c.opened, "remote:"+uri)
	if c.remoteErr != nil {
		return nil, c.remoteErr
	}
	return c.remote, nil
}

func (c *fakeConnector) OpenLocal(ctx context.Context, uri string) (LocalEmployeeStore, error) {
	c.opened = append(c.opened, "local:"+uri)
	if c.localErr != nil {
		return nil, c.localErr
	}
	return c.local, nil
}

type fakeRemoteStore struct {
	docs   []bson.M
	closed bool
}

func (s *fakeRemoteStore) All(ctx context.Context) ([]bson.M, error) {
	out := make([]bson.M, 0, len(s.docs))
	for _, doc := range s.docs {
		out = append(out, copyDoc(doc))
	}
	return out, nil
}

func (s *fakeRemoteStore) UpdatedSince(ctx context.Context, watermark time.Time) (DocumentCursor, error) {
	var matched []bson.M
	for _, doc := range s.docs {
		updated, ok := utils.ParseFlexibleTime(doc["updatedAt"])
		if ok && updated.After(watermark) {
			matched = append(matched, copyDoc(doc))
		}
	}
	return &sliceCursor{docs: matched, pos: -1}, nil
}

func (s *fakeRemoteStore) Close(ctx context.Context) error {
	s.closed = true
	return nil
}

type fakeLocalStore struct {
	docs          []bson.M
	upsertCalls   int
	failOnUpsert  int
	failBulk      bool
	watermark     time.Time
	watermarkSets int
	batchSizes    []int
	closed        bool
}

func (s *fakeLocalStore) Stamps(ctx context.Context) ([]LocalStamp, error) {
	stamps := make([]LocalStamp, 0, len(s.docs))
	for _, doc := range s.docs {
		stamps = append(stamps, LocalStamp{CPF: doc["cpf"], Timestamp: doc["data_envio_local"]})
	}
	return stamps, nil
}

func (s *fakeLocalStore) UpsertByCPF(ctx context.Context, doc bson.M) (bool, error) {
	s.upsertCalls++
	if s.failOnUpsert > 0 && s.upsertCalls == s.failOnUpsert {
		return false, errFakeWrite
	}
	for _, existing := range s.docs {
		if existing["cpf"] == doc["cpf"] {
			for k, v := range doc {
				if k != "_id" {
					existing[k] = v
				}
			}
			return false, nil
		}
	}
	s.docs = append(s.docs, copyDoc(doc))
	return true, nil
}

func (s *fakeLocalStore) UpsertByID(ctx context.Context, docs []bson.M) (int, int, error) {
	s.batchSizes = append(s.batchSizes, len(docs))
	if s.failBulk {
		return 0, 0, errFakeWrite
	}
	inserted, updated := 0, 0
	for _, doc := range docs {
		found := false
		for _, existing := range s.docs {
			if existing["_id"] == doc["_id"] {
				for k, v := range doc {
					existing[k] = v
				}
				found = true
				break
			}
		}
		if found {
			updated++
		} else {
			s.docs = append(s.docs, copyDoc(doc))
			inserted++
		}
	}
	return inserted, updated, nil
}

func (s *fakeLocalStore) Watermark(ctx context.Context, key string) (time.Time, error) {
	return s.watermark, nil
}

func (s *fakeLocalStore) SaveWatermark(ctx context.Context, key string, watermark time.Time) error {
	s.watermark = watermark
	s.watermarkSets++
	return nil
}

func (s *fakeLocalStore) Close(ctx context.Context) error {
	s.closed = true
	return nil
}

func (s *fakeLocalStore) byCPF(cpf string) []bson.M {
	var out []bson.M
	for _, doc := range s.docs {
		if doc["cpf"] == cpf {
			out = append(out, doc)
		}
	}
	return out
}

type sliceCursor struct {
	docs []bson.M
	pos  int
}

func (c *sliceCursor) Next(ctx context.Context) bool {
	c.pos++
	return c.pos < len(c.docs)
}

func (c *sliceCursor) Decode(val interface{}) error {
	raw, err := bson.Marshal(c.docs[c.pos])
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, val)
}

func (c *sliceCursor) Err() error                      { return nil }
func (c *sliceCursor) Close(ctx context.Context) error { return nil }

func copyDoc(doc bson.M) bson.M {
	out := make(bson.M, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}
