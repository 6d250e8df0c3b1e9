package validators

import "go.mongodb.org/mongo-driver/bson"

// UserValidator covers the fields this service reads and writes. Documents
// carry many more fields owned by the scheduling app.
var UserValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"email"},
		"additionalProperties": true,
		"properties": bson.M{
			"email":              bson.M{"bsonType": "string"},
			"password":           bson.M{"bsonType": []string{"string", "null"}},
			"identity_provider":  bson.M{"bsonType": "string"},
			"two_factor_enabled": bson.M{"bsonType": "bool"},
			"two_factor_secret":  bson.M{"bsonType": []string{"string", "null"}},
			"updated_at":         bson.M{"bsonType": "date"},
		},
	},
}
