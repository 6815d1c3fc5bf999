// Package mapping provides the YAML profile schema, its parser and
// structural validation, and the name registry that binds type and function
// names used in profile files to Go values.
//
// # Schema Overview
//
//	version: "1"
//	mappings:
//	  - source: store.User
//	    target: warehouse.UserDTO
//	    # destination members fed by a differently named source member
//	    121:
//	      EMail: Contact
//	    # explicit rules
//	    fields:
//	      - target: City
//	        source: Address.City
//	      - target: FullName
//	        resolver: FullName
//	    # destination members never populated
//	    ignore:
//	      - Password
//	  - source: store.Product
//	    target: warehouse.ProductDTO
//	    converter: ProductToDTO
//
// # Priority Order
//
// Within one type mapping:
//  1. "ignore" (an ignored member is never populated)
//  2. "121" shorthand and "fields" explicit rules
//  3. conventions of the mapper (same name, map tags)
//
// # Path Syntax
//
// Source paths are dotted member names: "Name", "Address.City",
// "Customer.FullName". A path segment may name a niladic method.
package mapping
