package database

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/glimora/glimora-backend-go/utils"
)

const orderCounterID = "orderID"

type counterDoc struct {
	ID  string `bson:"_id"`
	Seq int64  `bson:"seq"`
}

// NextOrderSequence atomically increments and returns the order-ID sequence.
// Two racing allocations each get a distinct number: the increment and the
// read are a single findAndModify on the counter document.
func NextOrderSequence(ctx context.Context) (int64, error) {
	var doc counterDoc
	err := DB.Collection("counters").FindOneAndUpdate(
		ctx,
		bson.M{"_id": orderCounterID},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return 0, err
	}
	return doc.Seq, nil
}

// SeedOrderCounter initializes the sequence from the numerically highest
// orderID already stored, so deployments that predate the counter keep a
// strictly increasing sequence across gaps from deleted orders. No-op once
// the counter document exists.
func SeedOrderCounter(ctx context.Context) error {
	err := DB.Collection("counters").FindOne(ctx, bson.M{"_id": orderCounterID}).Err()
	if err == nil {
		return nil
	}
	if err != mongo.ErrNoDocuments {
		return err
	}

	var last struct {
		OrderID string `bson:"orderID"`
	}
	var seq int64
	err = DB.Collection("orders").FindOne(
		ctx,
		bson.M{},
		options.FindOne().SetSort(bson.M{"orderID": -1}),
	).Decode(&last)
	switch {
	case err == mongo.ErrNoDocuments:
		seq = 0
	case err != nil:
		return err
	default:
		n, perr := utils.ParseOrderID(last.OrderID)
		if perr != nil {
			return perr
		}
		seq = n
	}

	_, err = DB.Collection("counters").UpdateOne(
		ctx,
		bson.M{"_id": orderCounterID},
		bson.M{"$setOnInsert": bson.M{"seq": seq}},
		options.Update().SetUpsert(true),
	)
	return err
}
