/*
Package config loads the persisted key-value store the replace pairs come from.

	            +-------------+
	            |    Store    |
	            | (key/value) |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   JSON   | |   YAML   | |   HCL    |
	|  Parser  | |  Parser  | |  Parser  |
	+----------+ +----------+ +----------+

🎯 Purpose:
- Reads the store written by the settings UI (numPairs, findText{i},
  replaceWithText{i}, maxOccurrences{i})
- Hides the file format from the rules package

🔄 Flow:
1. Reads the file
2. Picks a parser from the extension (.textswaprc tries YAML, then HCL)
3. Exposes the flat values through Store.Lookup

📝 The store is read-only here. Interpreting values (defaults, number
coercion) is the job of rules.FromSource.

🔍 Example:

	store, err := config.Load(ctx, ".textswaprc")
	if err != nil {
		return err
	}
	set := rules.FromSource(ctx, store).Active()
*/
package config
