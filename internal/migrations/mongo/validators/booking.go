package validators

import (
	"campsite/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
)

var day = bson.M{"bsonType": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`}

func text(minLength, maxLength int) bson.M {
	s := bson.M{"bsonType": "string", "minLength": minLength}
	if maxLength > 0 {
		s["maxLength"] = maxLength
	}
	return s
}

// BookingValidator is the $jsonSchema enforced on the bookings collection. History
// snapshots may not nest their own history.
var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"bookingId", "firstName", "lastName", "email",
			"fromDate", "toDate", "days", "bookingStatus", "lastUpdateTimestamp",
		},
		"properties": bson.M{
			"_id":       bson.M{"bsonType": "objectId"},
			"bookingId": bson.M{"bsonType": []string{"long", "int"}, "minimum": 1},
			"firstName": text(1, 100),
			"lastName":  text(1, 100),
			"email":     text(3, 0),
			"fromDate":  day,
			"toDate":    day,
			"days":      bson.M{"bsonType": "array", "minItems": 1, "items": day},
			"bookingStatus": bson.M{
				"bsonType": "string",
				"enum":     []string{string(model.StatusConfirmed), string(model.StatusCancelled)},
			},
			"cancellationReason":  bson.M{"bsonType": "string"},
			"lastUpdateTimestamp": bson.M{"bsonType": "date"},
			"changeHistory": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "object",
					"not":      bson.M{"required": []string{"changeHistory"}},
				},
			},
		},
	},
}
