// Package mongofake provides an in-memory stand-in for a mongo client, so code written against
// the driver's collection API can be tested without a running database.
//
// A client owns one database and the database owns one collection; Connect and Collection
// return the same instances every time.
//
// URL Format:
//
//	mongofake://host/database_name
//
// Basic Usage:
//
//	client := mongofake.Reset() // fresh state for this test
//	db, _ := client.Connect(ctx)
//	col := db.Collection()
//
//	col.InsertMany(ctx, []any{
//	    bson.M{"name": "rimmer", "rank": "second technician"},
//	    bson.M{"name": "lister", "rank": "third technician"},
//	})
//
//	cursor, _ := col.Find(ctx, bson.M{"$or": bson.A{
//	    bson.M{"name": "rimmer"},
//	    bson.M{"rank": "third technician"},
//	}})
//	docs, _ := cursor.ToArray(ctx)
//
//	col.UpdateMany(ctx, bson.M{}, bson.M{"$set": bson.M{"ship": "red dwarf"}})
//
// Filters:
//
//   - nil or an empty document matches every document
//   - {"$or": [{field: value}, ...]} matches documents where any clause's field deeply and
//     strictly equals its value (no numeric or string coercion)
//
// Any other filter is rejected with an error whose grpc code is Unimplemented or
// InvalidArgument. Updates write $set only: every $set field is written except _id, and an
// update without $set matches nothing and changes nothing.
//
// Documents returned by Find are handles on the stored documents, later updates are visible
// through them. Document.Map returns a copy owned by the caller.
package mongofake
