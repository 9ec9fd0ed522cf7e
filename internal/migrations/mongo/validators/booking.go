package validators

import "go.mongodb.org/mongo-driver/bson"

const SeatPattern = "^[A-F]([1-9]|10)$"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"_id",
			"user_id",
			"show_id",
			"movie_title",
			"cinema",
			"seats",
			"amount",
			"status",
			"created_at",
		},
		"additionalProperties": false,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType":  "string",
				"minLength": 36,
				"maxLength": 36,
			},

			"user_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 128,
			},

			"show_id": bson.M{
				"bsonType": "string",
				"pattern":  "^show_tt[0-9]{7,10}$",
			},

			"movie_title": bson.M{
				"bsonType":  "string",
				"maxLength": 300,
			},

			"cinema": bson.M{
				"bsonType":  "string",
				"maxLength": 100,
			},

			"seats": bson.M{
				"bsonType":    "array",
				"minItems":    1,
				"maxItems":    60,
				"uniqueItems": true,
				"items": bson.M{
					"bsonType": "string",
					"pattern":  SeatPattern,
				},
			},

			"amount": bson.M{
				"bsonType": "long",
				"minimum":  0,
			},

			"status": bson.M{
				"enum": []string{"booked", "cancelled"},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"cancelled_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
