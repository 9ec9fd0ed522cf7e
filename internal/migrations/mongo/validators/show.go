package validators

import "go.mongodb.org/mongo-driver/bson"

var ShowValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"_id",
			"movie_id",
			"movie_title",
			"cinema",
			"datetime",
			"price_per_seat",
			"booked_seats",
			"version",
			"created_at",
		},
		"additionalProperties": false,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
				"pattern":  "^show_tt[0-9]{7,10}$",
			},

			"movie_id": bson.M{
				"bsonType": "string",
				"pattern":  "^tt[0-9]{7,10}$",
			},

			"movie_title": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 300,
			},

			"cinema": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"datetime": bson.M{
				"bsonType": "date",
			},

			"price_per_seat": bson.M{
				"bsonType": "long",
				"minimum":  1,
			},

			"booked_seats": bson.M{
				"bsonType":    "array",
				"maxItems":    60,
				"uniqueItems": true,
				"items": bson.M{
					"bsonType": "string",
					"pattern":  SeatPattern,
				},
			},

			"version": bson.M{
				"bsonType": "long",
				"minimum":  0,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
